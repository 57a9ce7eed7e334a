package feed

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

const titleKeyLength = 40

var (
	// " - Reuters", "｜日経", "| Bloomberg". A hyphen only counts as a
	// separator when preceded by whitespace so hyphenated words survive.
	sourceSuffixRe = regexp.MustCompile(`(?:\s+-|\s*[|｜])\s*[^-|｜]+$`)
	// "(共同通信)", "（ロイター）"
	sourceParenRe = regexp.MustCompile(`\s*[（(][^）)]+[）)]\s*$`)
	titleNoiseRe  = regexp.MustCompile(`[\s　、。・！？!?,.\-:：【】「」『』|｜()（）\[\]]+`)
)

// NormalizeTitle reduces a headline to a comparison key so the same story
// syndicated under cosmetically different titles collides. The result is
// stable under repeated normalization.
func NormalizeTitle(title string) string {
	t := width.Fold.String(title)
	t = sourceSuffixRe.ReplaceAllString(t, "")
	t = sourceParenRe.ReplaceAllString(t, "")
	t = titleNoiseRe.ReplaceAllString(t, "")
	t = cases.Lower(language.Und).String(t)
	return Truncate(t, titleKeyLength)
}

// Truncate shortens s to at most n characters, never splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
