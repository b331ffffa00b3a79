package catalog

import (
	"math"
	"slices"
	"strings"

	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Categorize assigns every line to a category, preserving input order.
//
// A header line switches the current category. An unmarked line from a
// branded item has no home under the current header and opens a misc group
// of its own. Any other unmarked line belongs to the current group. Lines
// that arrive before the first header have no group and are counted in
// orphans.
func Categorize(lines []domain.CatalogLine) (byCategory map[domain.Category][]domain.CatalogLine, orphans int) {
	byCategory = make(map[domain.Category][]domain.CatalogLine, len(domain.Categories()))
	current := domain.CategoryNone

	for _, l := range lines {
		switch {
		case l.IsHeader():
			current = l.Category
		case l.Branded && !l.IsBlank():
			current = domain.CategoryMisc
			l = domain.CatalogLine{
				Text:     mark(domain.CategoryMisc, l.Text),
				Category: domain.CategoryMisc,
				Branded:  true,
			}
		case current == domain.CategoryNone:
			orphans++
			continue
		}
		byCategory[current] = append(byCategory[current], l)
	}
	return byCategory, orphans
}

// Group splits a category's lines into product groups at every header
// line. Lines preceding the first header form a headerless group.
func Group(lines []domain.CatalogLine) []domain.ProductGroup {
	var groups []domain.ProductGroup
	var cur []domain.CatalogLine

	for _, l := range lines {
		if l.IsHeader() && len(cur) > 0 {
			groups = append(groups, domain.ProductGroup{Lines: cur})
			cur = nil
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		groups = append(groups, domain.ProductGroup{Lines: cur})
	}
	return groups
}

// SortKey returns the price a group is ordered by: the first parseable
// number on the last line that has one. Groups without a price sort last.
func SortKey(g domain.ProductGroup) float64 {
	for i := len(g.Lines) - 1; i >= 0; i-- {
		for _, tok := range strings.Fields(g.Lines[i].Text) {
			if v, ok := pricing.Parse(tok); ok {
				return v
			}
		}
	}
	return math.Inf(1)
}

// SortByPrice orders groups ascending by SortKey. The sort is stable.
func SortByPrice(groups []domain.ProductGroup) {
	slices.SortStableFunc(groups, func(a, b domain.ProductGroup) int {
		ka, kb := SortKey(a), SortKey(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}

// CollapseBlankLines reduces every run of blank lines to a single one.
func CollapseBlankLines(lines []domain.CatalogLine) []domain.CatalogLine {
	out := make([]domain.CatalogLine, 0, len(lines))
	prevBlank := false
	for _, l := range lines {
		blank := l.IsBlank()
		if blank && prevBlank {
			continue
		}
		prevBlank = blank
		out = append(out, l)
	}
	return out
}

// Flatten concatenates the lines of groups.
func Flatten(groups []domain.ProductGroup) []domain.CatalogLine {
	var out []domain.CatalogLine
	for _, g := range groups {
		out = append(out, g.Lines...)
	}
	return out
}
