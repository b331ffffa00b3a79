// Package scrape harvests raw price-list items from the retailer's
// quick-checkout pages.
package scrape

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Default parser settings for the retailer's page layout.
const (
	DefaultSelector    = ".mantine-Text-root"
	DefaultSkipLeading = 25
)

// DefaultValidBrands lists the vendor tokens recognised as a brand prefix.
func DefaultValidBrands() []string {
	return []string{
		"Galaxy", "POCO", "Redmi", "iPhone", "Redtone", "VOCAL", "TCL",
		"NOKIA", "Honor", "Huawei", "GLX", "+Otel", "اینچی",
	}
}

// DefaultNoise lists substrings removed from every text node: currency
// suffixes, the "unknown" price placeholder and the search box label.
// Longer forms come first so they are removed whole.
func DefaultNoise() []string {
	return []string{"تومانءء", "تومان", "نامشخص", "جستجو در مدل‌ها"}
}

// Parser turns a rendered price-list page into raw items.
type Parser struct {
	// Selector matches the text nodes that carry names, colours and prices.
	Selector string
	// ValidBrands are first words split off into RawItem.Brand.
	ValidBrands []string
	// Noise substrings are stripped from each node.
	Noise []string
	// SkipLeading drops the page chrome (filters, navigation) that precedes
	// the product list.
	SkipLeading int
}

// DefaultParser returns a Parser for the retailer's current layout.
func DefaultParser() Parser {
	return Parser{
		Selector:    DefaultSelector,
		ValidBrands: DefaultValidBrands(),
		Noise:       DefaultNoise(),
		SkipLeading: DefaultSkipLeading,
	}
}

// Parse extracts one item per matched node in document order.
func (p Parser) Parse(r io.Reader) ([]domain.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	var items []domain.RawItem
	doc.Find(p.Selector).Each(func(_ int, s *goquery.Selection) {
		items = append(items, p.Item(s.Text()))
	})

	if len(items) <= p.SkipLeading {
		return nil, nil
	}
	return items[p.SkipLeading:], nil
}

// Item cleans one node's text and splits off a recognised brand. A node
// that reads as a number is returned as a price token.
func (p Parser) Item(text string) domain.RawItem {
	name := strings.TrimSpace(text)
	for _, n := range p.Noise {
		name = strings.ReplaceAll(name, n, "")
	}

	fields := strings.Fields(name)
	if len(fields) > 0 && slices.Contains(p.ValidBrands, fields[0]) {
		return domain.RawItem{
			Brand: fields[0],
			Model: strings.Join(fields[1:], " "),
		}
	}
	name = strings.Join(fields, " ")
	if _, ok := pricing.Parse(name); ok {
		return domain.RawItem{PriceToken: name}
	}
	return domain.RawItem{Model: name}
}
