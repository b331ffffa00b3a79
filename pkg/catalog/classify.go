// Package catalog turns scraped retailer items into categorized, sorted
// product groups ready for pagination.
package catalog

import (
	"strings"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// rule maps a set of substrings to the category they imply.
type rule struct {
	category domain.Category
	keywords []string
}

// rules are evaluated in order and the first match wins. Tablet keywords
// precede brand rules so a "Galaxy Tab" is filed as a tablet.
var rules = []rule{
	{category: domain.CategoryTablet, keywords: []string{"Nartab", "Tab", "تبلت"}},
	{category: domain.CategorySamsung, keywords: []string{"Galaxy"}},
	{category: domain.CategoryXiaomi, keywords: []string{"POCO", "Poco", "Redmi"}},
	{category: domain.CategoryApple, keywords: []string{"iPhone"}},
	{category: domain.CategoryLaptop, keywords: []string{"اینچی", "لپ تاپ"}},
	{category: domain.CategoryMisc, keywords: []string{"RAM", "FA", "Classic", "Otel", "DOX"}},
	{category: domain.CategoryConsole, keywords: []string{"Play Station", "کنسول بازی", "پلی استیشن", "بازی"}},
}

// Classify returns the category of line. A line that already carries a
// marker keeps that marker's category. The boolean is false when no rule
// matches.
func Classify(line string) (domain.Category, bool) {
	if c, ok := domain.MarkerCategory(line); ok {
		return c, true
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(line, kw) {
				return r.category, true
			}
		}
	}
	return domain.CategoryNone, false
}

// Decorate prefixes line with the marker of its category. Marked lines and
// lines no rule matches are returned unchanged, so Decorate is idempotent.
func Decorate(line string) string {
	if _, ok := domain.MarkerCategory(line); ok {
		return line
	}
	c, ok := Classify(line)
	if !ok {
		return line
	}
	return mark(c, line)
}

func mark(c domain.Category, line string) string {
	return c.Marker() + " " + line
}
