package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

type ExtractMode string

const (
	ExtractSelectors   ExtractMode = "selectors"
	ExtractReadability ExtractMode = "readability"
)

const (
	nonContentTags     = "script, style, nav, header, footer, aside, iframe, form"
	minParagraphLength = 20
)

// Common content-area containers, most specific first.
var contentSelectors = []string{
	".article-body",
	".article_body",
	".articleBody",
	".entry-content",
	".post-content",
	".news-body",
	".story-body",
	"#article-body",
	".main-content",
	".newsDetail",
	".content-main",
}

// ContentExtractor pulls the readable body text out of an article page.
type ContentExtractor struct {
	mode ExtractMode
}

func NewContentExtractor(mode ExtractMode) *ContentExtractor {
	if mode == "" {
		mode = ExtractSelectors
	}
	return &ContentExtractor{mode: mode}
}

func (e *ContentExtractor) Mode() ExtractMode {
	return e.mode
}

// Run returns the article text of an HTML page, truncated to
// MaxArticleBodyLength characters. The page is decoded to UTF-8 using
// contentType (the response header, may be empty) and any in-document
// declaration. pageURL may be empty.
//
// A page with no content container and no paragraph longer than
// minParagraphLength yields an error in every mode.
func (e *ContentExtractor) Run(data []byte, pageURL, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	data, enc := ToUTF8(data, contentType)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	text := extractWithSelectors(doc)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	if e.mode == ExtractReadability {
		article, err := e.runReadability(data, pageURL)
		if err == nil {
			return Truncate(article, MaxArticleBodyLength), nil
		}
		slog.Debug("Readability extraction failed, using selectors", "url", pageURL, "charset", enc, "error", err)
	}

	return Truncate(text, MaxArticleBodyLength), nil
}

// runReadability expects UTF-8 input. The document is parsed here rather
// than by readability so that a stale <meta charset> is not applied twice.
func (e *ContentExtractor) runReadability(data []byte, pageURL string) (string, error) {
	var base *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			base = u
		}
	}
	if base == nil {
		base = &url.URL{Scheme: "http", Host: "localhost"}
	}

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	article, err := readability.FromDocument(root, base)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}

// extractWithSelectors tries an <article> element, then the first known
// content container, then every paragraph longer than minParagraphLength.
func extractWithSelectors(doc *goquery.Document) string {
	doc.Find(nonContentTags).Remove()

	var text string

	if article := doc.Find("article").First(); article.Length() > 0 {
		text = joinText(article, "\n")
	}

	if text == "" {
		for _, selector := range contentSelectors {
			if el := doc.Find(selector).First(); el.Length() > 0 {
				text = joinText(el, "\n")
				break
			}
		}
	}

	if text == "" {
		var paragraphs []string
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := joinText(p, "")
			if utf8.RuneCountInString(t) > minParagraphLength {
				paragraphs = append(paragraphs, t)
			}
		})
		text = strings.Join(paragraphs, "\n")
	}

	return text
}

// joinText collects every text node under sel, trimmed and non-empty,
// joined by sep.
func joinText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}
