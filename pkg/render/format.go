package render

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// DefaultMaxLength keeps blocks under Telegram's 4096 unit limit with room
// for escaping slack.
const DefaultMaxLength = 4000

// ErrMaxLength is returned when the configured block size is not positive.
var ErrMaxLength = errors.New("max length must be positive")

// Layout holds the fixed text surrounding catalog content.
type Layout struct {
	ChannelTitle string
	Footer       string
	Titles       map[domain.Category]string
	MaxLength    int
}

// DefaultTitles returns the display title of each category.
func DefaultTitles() map[domain.Category]string {
	return map[domain.Category]string{
		domain.CategorySamsung: "سامسونگ",
		domain.CategoryXiaomi:  "شیائومی",
		domain.CategoryApple:   "آیفون",
		domain.CategoryMisc:    "گوشیای متفرقه",
		domain.CategoryLaptop:  "لپ‌تاپ‌ها",
		domain.CategoryTablet:  "تبلت‌ها",
		domain.CategoryConsole: "کنسول‌ بازی",
	}
}

// DefaultLayout returns a Layout with the default titles and block size
// and no channel title or footer.
func DefaultLayout() Layout {
	return Layout{Titles: DefaultTitles(), MaxLength: DefaultMaxLength}
}

// Title returns the display title for c, falling back to the category key.
func (l Layout) Title(c domain.Category) string {
	if t, ok := l.Titles[c]; ok && t != "" {
		return t
	}
	return c.String()
}

// Header returns the full header that opens the first block of a category.
func (l Layout) Header(c domain.Category, s Stamp) string {
	var b strings.Builder
	b.WriteString("🗓 بروزرسانی ")
	b.WriteString(s.Date)
	if s.Time != "" {
		b.WriteString(" 🕓 ساعت: ")
		b.WriteString(s.Time)
	}
	b.WriteString("\n")
	if l.ChannelTitle != "" {
		b.WriteString(l.ChannelTitle)
		b.WriteString("\n")
	}
	b.WriteString("\n⬅️ موجودی ")
	b.WriteString(l.Title(c))
	b.WriteString(" ➡️\n\n")
	return b.String()
}

// Continuation returns the short marker that opens every later block.
func (l Layout) Continuation(s Stamp) string {
	if s.Time != "" {
		return "🕓 " + s.Time + "\n\n"
	}
	return "🗓 " + s.Date + "\n\n"
}

func (l Layout) footer() string {
	if l.Footer == "" {
		return ""
	}
	return "\n\n" + l.Footer
}

// RenderGroup renders a group as its header line followed by one
// "label | price" line per variant.
func RenderGroup(g domain.ProductGroup) string {
	var lines []string
	if h := g.Header(); h.IsHeader() {
		lines = append(lines, strings.TrimSpace(h.Text))
	}
	for _, v := range g.Variants() {
		if v.Price == "" {
			lines = append(lines, v.Label)
			continue
		}
		lines = append(lines, v.Label+" | "+v.Price)
	}
	return strings.Join(lines, "\n")
}

const groupSeparator = "\n\n"

// Paginate splits a category's groups into blocks no longer than
// MaxLength. A group is never split; a group that alone exceeds the limit
// yields an oversized block. The footer is counted against the last group.
func (l Layout) Paginate(c domain.Category, groups []domain.ProductGroup, s Stamp) ([]domain.MessageBlock, error) {
	if l.MaxLength <= 0 {
		return nil, fmt.Errorf("paginating %s: %w (got %d)", c, ErrMaxLength, l.MaxLength)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	header := l.Header(c, s)
	continuation := l.Continuation(s)
	footer := l.footer()

	var (
		blocks  []domain.MessageBlock
		body    strings.Builder
		pending []domain.ProductGroup
		prefix  = header
	)

	flush := func(withFooter bool) {
		text := prefix + body.String()
		if withFooter {
			text += footer
		}
		blocks = append(blocks, domain.MessageBlock{
			Category: c,
			Index:    len(blocks),
			Text:     text,
			Groups:   pending,
		})
		body.Reset()
		pending = nil
		prefix = continuation
	}

	for i, g := range groups {
		rendered := RenderGroup(g)
		last := i == len(groups)-1

		need := Length(prefix) + Length(body.String()) + Length(rendered)
		if len(pending) > 0 {
			need += Length(groupSeparator)
		}
		if last {
			need += Length(footer)
		}

		if need > l.MaxLength && len(pending) > 0 {
			flush(false)
		}

		if len(pending) > 0 {
			body.WriteString(groupSeparator)
		}
		body.WriteString(rendered)
		pending = append(pending, g)
	}
	flush(true)

	return blocks, nil
}
