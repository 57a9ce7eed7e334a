package watchlist

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

type Category string

const (
	CategoryPortfolio   Category = "portfolio"
	CategoryOpportunity Category = "opportunity"
	CategoryUnknown     Category = "unknown"
)

// MatchAll is the single keyword reported for every entry when the registry
// holds no keywords at all.
const MatchAll = "all"

// Registry maps watchlist keywords to their category. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	portfolio   []string
	opportunity []string
	categories  map[string]Category
}

func NewRegistry(portfolio, opportunity []string) *Registry {
	r := &Registry{
		portfolio:   compact(portfolio),
		opportunity: compact(opportunity),
		categories:  make(map[string]Category),
	}

	// Opportunity first so that a keyword listed under both ends up as portfolio.
	for _, kw := range r.opportunity {
		r.categories[Fold(kw)] = CategoryOpportunity
	}
	for _, kw := range r.portfolio {
		r.categories[Fold(kw)] = CategoryPortfolio
	}

	return r
}

func (r *Registry) Portfolio() []string {
	return slices.Clone(r.portfolio)
}

func (r *Registry) Opportunity() []string {
	return slices.Clone(r.opportunity)
}

func (r *Registry) Len() int {
	return len(r.categories)
}

// Lookup returns the category of a single keyword, case-insensitively.
func (r *Registry) Lookup(keyword string) Category {
	if cat, ok := r.categories[Fold(keyword)]; ok {
		return cat
	}
	return CategoryUnknown
}

// Match returns every registry keyword contained in text, in registry order
// (portfolio first) without repeats. An empty registry matches everything.
func (r *Registry) Match(text string) []string {
	if len(r.categories) == 0 {
		return []string{MatchAll}
	}

	haystack := Fold(text)
	seen := make(map[string]struct{})
	var matched []string
	for _, list := range [][]string{r.portfolio, r.opportunity} {
		for _, kw := range list {
			folded := Fold(kw)
			if _, ok := seen[folded]; ok {
				continue
			}
			if strings.Contains(haystack, folded) {
				seen[folded] = struct{}{}
				matched = append(matched, kw)
			}
		}
	}
	return matched
}

// Classify derives the category of a set of matched keywords. Any portfolio
// keyword wins over opportunity keywords.
func (r *Registry) Classify(matched []string) Category {
	hasOpportunity := false
	for _, kw := range matched {
		switch r.Lookup(kw) {
		case CategoryPortfolio:
			return CategoryPortfolio
		case CategoryOpportunity:
			hasOpportunity = true
		}
	}
	if hasOpportunity {
		return CategoryOpportunity
	}
	return CategoryUnknown
}

// Fold brings text to the form used for keyword comparison: full-width
// ASCII folded to half-width, then Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(width.Fold.String(s))
}

func compact(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
