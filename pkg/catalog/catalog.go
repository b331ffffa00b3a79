package catalog

import (
	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Catalog is the per-run result of turning scraped items into sorted
// product groups.
type Catalog struct {
	Groups  map[domain.Category][]domain.ProductGroup
	Lines   int
	Orphans int
}

// Build renders, categorizes, groups and sorts items. Categories with no
// lines have no entry in Groups.
func Build(items []domain.RawItem, policy pricing.Policy) Catalog {
	lines := RenderLines(items, policy)
	byCategory, orphans := Categorize(lines)

	c := Catalog{
		Groups:  make(map[domain.Category][]domain.ProductGroup, len(byCategory)),
		Lines:   len(lines),
		Orphans: orphans,
	}
	for _, cat := range domain.Categories() {
		catLines := byCategory[cat]
		if len(catLines) == 0 {
			continue
		}
		groups := Group(catLines)
		SortByPrice(groups)
		c.Groups[cat] = Group(CollapseBlankLines(Flatten(groups)))
	}
	return c
}

// Count returns the number of groups in category c.
func (c Catalog) Count(cat domain.Category) int {
	return len(c.Groups[cat])
}
