package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

func header(c domain.Category, text string) domain.CatalogLine {
	return domain.CatalogLine{Text: c.Marker() + " " + text, Category: c, Branded: true}
}

func variant(text string) domain.CatalogLine {
	return domain.CatalogLine{Text: text}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	lines := []domain.CatalogLine{
		variant("orphan colour"),
		variant("orphan price"),
		header(domain.CategorySamsung, "A15 Galaxy"),
		variant("مشکی"),
		variant("6,800,000"),
		{Text: "X8 128GB Honor", Branded: true},
		variant("آبی"),
		variant("9,900,000"),
		header(domain.CategoryApple, "13 iPhone"),
		variant("سفید"),
	}

	got, orphans := Categorize(lines)

	assert.Equal(t, 2, orphans)
	require.Len(t, got[domain.CategorySamsung], 3)
	require.Len(t, got[domain.CategoryMisc], 3)
	require.Len(t, got[domain.CategoryApple], 2)

	misc := got[domain.CategoryMisc][0]
	assert.Equal(t, "🟣 X8 128GB Honor", misc.Text)
	assert.True(t, misc.IsHeader())
	assert.Equal(t, "آبی", got[domain.CategoryMisc][1].Text)
	assert.Empty(t, got[domain.CategoryXiaomi])
}

func TestCategorize_BlankBrandedLineIsVariant(t *testing.T) {
	t.Parallel()

	lines := []domain.CatalogLine{
		header(domain.CategoryXiaomi, "Note 13 Redmi"),
		{Text: "", Branded: true},
	}
	got, orphans := Categorize(lines)
	assert.Zero(t, orphans)
	assert.Len(t, got[domain.CategoryXiaomi], 2)
	assert.Empty(t, got[domain.CategoryMisc])
}

func TestGroup_ReproducesInput(t *testing.T) {
	t.Parallel()

	lines := []domain.CatalogLine{
		header(domain.CategorySamsung, "A15 Galaxy"),
		variant("مشکی"),
		variant("6,800,000"),
		header(domain.CategorySamsung, "A25 Galaxy"),
		header(domain.CategorySamsung, "A55 Galaxy"),
		variant("سبز"),
	}

	groups := Group(lines)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Lines, 3)
	assert.Len(t, groups[1].Lines, 1)
	assert.Len(t, groups[2].Lines, 2)
	assert.Equal(t, lines, Flatten(groups))
}

func TestGroup_LeadingHeaderless(t *testing.T) {
	t.Parallel()

	groups := Group([]domain.CatalogLine{variant("a"), header(domain.CategoryMisc, "b")})
	require.Len(t, groups, 2)
	assert.False(t, groups[0].Header().IsHeader())
}

func TestSortKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []domain.CatalogLine
		want  float64
	}{
		{
			name:  "last priced line wins",
			lines: []domain.CatalogLine{header(domain.CategorySamsung, "A15 Galaxy"), variant("5,000,000"), variant("مشکی"), variant("4,100,000")},
			want:  4_100_000,
		},
		{
			name:  "scans past unpriced trailing line",
			lines: []domain.CatalogLine{header(domain.CategorySamsung, "A15 Galaxy"), variant("7,000,000"), variant("سبز")},
			want:  7_000_000,
		},
		{
			name:  "number inside header counts",
			lines: []domain.CatalogLine{header(domain.CategoryApple, "13 iPhone")},
			want:  13,
		},
		{
			name:  "no price sorts last",
			lines: []domain.CatalogLine{header(domain.CategoryApple, "Pro iPhone")},
			want:  math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SortKey(domain.ProductGroup{Lines: tt.lines})) //nolint:testifylint // exact key
		})
	}
}

func TestSortByPrice_Stable(t *testing.T) {
	t.Parallel()

	a := domain.ProductGroup{Lines: []domain.CatalogLine{header(domain.CategorySamsung, "A Galaxy"), variant("9,000,000")}}
	b := domain.ProductGroup{Lines: []domain.CatalogLine{header(domain.CategorySamsung, "B Galaxy"), variant("3,000,000")}}
	c := domain.ProductGroup{Lines: []domain.CatalogLine{header(domain.CategorySamsung, "C Galaxy")}}
	d := domain.ProductGroup{Lines: []domain.CatalogLine{header(domain.CategorySamsung, "D Galaxy"), variant("3,000,000")}}

	groups := []domain.ProductGroup{c, a, b, d}
	SortByPrice(groups)

	assert.Equal(t, []domain.ProductGroup{b, d, a, c}, groups)
}

func TestCollapseBlankLines(t *testing.T) {
	t.Parallel()

	in := []domain.CatalogLine{
		variant("a"), variant(""), variant("  "), variant(""), variant("b"), variant(""), variant("c"),
	}
	got := CollapseBlankLines(in)

	texts := make([]string, 0, len(got))
	for _, l := range got {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"a", "", "b", "", "c"}, texts)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	items := []domain.RawItem{
		{Model: "لوازم جانبی"},
		{Brand: "Galaxy", Model: "A55 256GB"},
		{Model: "مشکی"},
		{PriceToken: "19,000,000"},
		{Brand: "Galaxy", Model: "A15 128GB"},
		{Model: "آبی"},
		{Model: "6500000"},
		{Brand: "iPhone", Model: "13 CH 128GB"},
		{Model: "سفید"},
		{PriceToken: "40,000,000"},
		{Brand: "Honor", Model: "X8b"},
		{Model: "طلایی"},
		{Model: "قیمت نامعلوم"},
	}

	c := Build(items, pricing.DefaultPolicy())

	assert.Equal(t, len(items), c.Lines)
	assert.Equal(t, 1, c.Orphans)

	samsung := c.Groups[domain.CategorySamsung]
	require.Len(t, samsung, 2)
	assert.Equal(t, "🔵 A15 128GB Galaxy", samsung[0].Header().Text)
	assert.Equal(t, []domain.Variant{{Label: "آبی", Price: "6,800,000"}}, samsung[0].Variants())
	assert.Equal(t, "🔵 A55 256GB Galaxy", samsung[1].Header().Text)
	assert.Equal(t, "19,500,000", samsung[1].Lines[2].Text)

	apple := c.Groups[domain.CategoryApple]
	require.Len(t, apple, 1)
	assert.Equal(t, "40,600,000", apple[0].Lines[2].Text)

	misc := c.Groups[domain.CategoryMisc]
	require.Len(t, misc, 1)
	assert.Equal(t, "🟣 X8b Honor", misc[0].Header().Text)

	assert.NotContains(t, c.Groups, domain.CategoryConsole)
	assert.Equal(t, 0, c.Count(domain.CategoryLaptop))
}
