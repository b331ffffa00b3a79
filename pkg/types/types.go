// Package domain defines the core business types for the price list publisher.
package domain

import (
	"strings"
	"time"
)

// Category identifies the channel section a catalog line is published under.
type Category string

// Category constants. CategoryNone marks variant lines that carry no marker.
const (
	CategoryNone    Category = ""
	CategorySamsung Category = "samsung"
	CategoryXiaomi  Category = "xiaomi"
	CategoryApple   Category = "apple"
	CategoryMisc    Category = "misc"
	CategoryLaptop  Category = "laptop"
	CategoryTablet  Category = "tablet"
	CategoryConsole Category = "console"

	// CategorySummary is the reserved ledger key for the navigation message.
	// It is never assigned to a catalog line.
	CategorySummary Category = "summary"
)

// categoryOrder is the fixed publication order.
var categoryOrder = []Category{
	CategorySamsung,
	CategoryXiaomi,
	CategoryApple,
	CategoryMisc,
	CategoryLaptop,
	CategoryTablet,
	CategoryConsole,
}

var categoryMarkers = map[Category]string{
	CategorySamsung: "🔵",
	CategoryXiaomi:  "🟡",
	CategoryApple:   "🍏",
	CategoryMisc:    "🟣",
	CategoryLaptop:  "💻",
	CategoryTablet:  "🟠",
	CategoryConsole: "🎮",
}

// Categories returns the catalog categories in publication order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory converts a stored key back into a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategorySummary {
		return c, true
	}
	_, ok := categoryMarkers[c]
	return c, ok
}

// Marker returns the positional tag that prefixes header lines of c.
func (c Category) Marker() string {
	return categoryMarkers[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}

// MarkerCategory returns the category whose marker prefixes line.
func MarkerCategory(line string) (Category, bool) {
	for _, c := range categoryOrder {
		if strings.HasPrefix(line, categoryMarkers[c]) {
			return c, true
		}
	}
	return CategoryNone, false
}

// RawItem is one text node harvested from the retailer's price list.
// Brand is empty when the vendor is not recognised; Model then carries the
// full name. Colour nodes arrive with only Model set and price nodes with
// only PriceToken set.
type RawItem struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	PriceToken string `json:"price_token,omitempty"`
}

// CatalogLine is a rendered price-list line. Header lines carry their
// category marker in Text; variant lines have Category set to CategoryNone.
type CatalogLine struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	// Branded is true when the source item had a recognised vendor.
	Branded bool `json:"branded,omitempty"`
}

// IsHeader reports whether the line starts a product group.
func (l CatalogLine) IsHeader() bool {
	return l.Category != CategoryNone
}

// IsBlank reports whether the line has no visible content.
func (l CatalogLine) IsBlank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// Variant is a (label, price) pair under a product header. Price is empty
// for a trailing unpaired line.
type Variant struct {
	Label string `json:"label"`
	Price string `json:"price,omitempty"`
}

// ProductGroup is a header line plus the variant lines that follow it.
// It is the unit pagination never splits.
type ProductGroup struct {
	Lines []CatalogLine `json:"lines"`
}

// Header returns the group's marker line, or the zero line when the group
// has none.
func (g ProductGroup) Header() CatalogLine {
	if len(g.Lines) > 0 && g.Lines[0].IsHeader() {
		return g.Lines[0]
	}
	return CatalogLine{}
}

// Variants pairs the group's unmarked lines consecutively as label/price.
func (g ProductGroup) Variants() []Variant {
	var rest []CatalogLine
	for _, l := range g.Lines {
		if l.IsHeader() || l.IsBlank() {
			continue
		}
		rest = append(rest, l)
	}

	variants := make([]Variant, 0, (len(rest)+1)/2)
	for i := 0; i < len(rest); i += 2 {
		v := Variant{Label: strings.TrimSpace(rest[i].Text)}
		if i+1 < len(rest) {
			v.Price = strings.TrimSpace(rest[i+1].Text)
		}
		variants = append(variants, v)
	}
	return variants
}

// MessageBlock is one bounded-size message part of a category.
type MessageBlock struct {
	Category Category       `json:"category"`
	Index    int            `json:"index"`
	Text     string         `json:"text"`
	Groups   []ProductGroup `json:"-"`
}

// LinkButton is an inline navigation button attached to a message.
type LinkButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// LedgerEntry records what was last published for one part of a category on
// a given day.
type LedgerEntry struct {
	Category  Category  `json:"category"   db:"category"`
	Date      string    `json:"date"       db:"date"`
	PartIndex int       `json:"part_index" db:"part_index"`
	MessageID string    `json:"message_id" db:"message_id"`
	Text      string    `json:"text"       db:"text"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Run status constants.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
	RunStatusNoData    = "no_data"
	RunStatusCrashed   = "crashed"
)

// Run records a single publication run.
type Run struct {
	ID          string     `json:"id"                     db:"id"`
	StartedAt   time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status      string     `json:"status"                 db:"status"`
	ErrorText   string     `json:"error_text,omitempty"   db:"error_text"`
	Items       int        `json:"items"                  db:"items"`
	Changed     bool       `json:"changed"                db:"changed"`
}
