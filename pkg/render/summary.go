package render

import (
	"strings"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// DefaultSummaryText is the navigation message body used when none is
// configured. The Bot API rejects empty messages.
const DefaultSummaryText = "✅ لیست گوشی و سایر کالاهای بالا بروز میباشد."

// SummaryLayout is the fixed navigation message and its button labels. An
// empty Text publishes DefaultSummaryText.
type SummaryLayout struct {
	Text   string
	Labels map[domain.Category]string
}

// DefaultSummaryLabels returns the navigation button label of each
// category.
func DefaultSummaryLabels() map[domain.Category]string {
	return map[domain.Category]string{
		domain.CategorySamsung: "📱 لیست سامسونگ",
		domain.CategoryXiaomi:  "📱 لیست شیائومی",
		domain.CategoryApple:   "📱 لیست آیفون",
		domain.CategoryMisc:    "📱 لیست متفرقه",
		domain.CategoryLaptop:  "💻 لیست لپ‌تاپ",
		domain.CategoryTablet:  "📱 لیست تبلت",
		domain.CategoryConsole: "🎮 کنسول بازی",
	}
}

// Summary is the navigation message published after the catalog.
type Summary struct {
	Text    string
	Buttons [][]domain.LinkButton
}

// BuildSummary returns the summary with one button row per category that
// has a link, in publication order. Categories without a label are skipped.
func (l SummaryLayout) BuildSummary(links map[domain.Category]string) Summary {
	s := Summary{Text: l.Text}
	if strings.TrimSpace(s.Text) == "" {
		s.Text = DefaultSummaryText
	}
	for _, c := range domain.Categories() {
		url := links[c]
		label := l.Labels[c]
		if url == "" || label == "" {
			continue
		}
		s.Buttons = append(s.Buttons, []domain.LinkButton{{Text: label, URL: url}})
	}
	return s
}

// LedgerText is the summary text plus its button rows. It is what the
// ledger stores so a change in either the text or a link forces a
// republish.
func (s Summary) LedgerText() string {
	var b strings.Builder
	b.WriteString(s.Text)
	for _, row := range s.Buttons {
		b.WriteString("\n")
		for i, btn := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("[")
			b.WriteString(btn.Text)
			b.WriteString("](")
			b.WriteString(btn.URL)
			b.WriteString(")")
		}
	}
	return b.String()
}
