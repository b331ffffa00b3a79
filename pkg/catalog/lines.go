package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// RenderLine builds the catalog line for a single scraped item: the model
// and price tokens run through the price policy, followed by the brand.
// Non-numeric tokens pass through unchanged.
func RenderLine(item domain.RawItem, policy pricing.Policy) domain.CatalogLine {
	fields := make([]string, 0, 3)
	for _, tok := range []string{
		policy.Normalize(strings.TrimSpace(item.Model)),
		policy.Normalize(strings.TrimSpace(item.PriceToken)),
		strings.TrimSpace(item.Brand),
	} {
		if tok != "" {
			fields = append(fields, tok)
		}
	}
	text := norm.NFC.String(strings.Join(fields, " "))

	line := domain.CatalogLine{
		Text:    text,
		Branded: strings.TrimSpace(item.Brand) != "",
	}
	if c, ok := Classify(text); ok {
		line.Text = Decorate(text)
		line.Category = c
	}
	return line
}

// RenderLines renders items in order.
func RenderLines(items []domain.RawItem, policy pricing.Policy) []domain.CatalogLine {
	out := make([]domain.CatalogLine, 0, len(items))
	for _, item := range items {
		out = append(out, RenderLine(item, policy))
	}
	return out
}
