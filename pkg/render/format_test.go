package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

func testLayout(maxLen int) Layout {
	return Layout{
		ChannelTitle: "✅ لیست پخش",
		Footer:       "☎️ تماس\n📞 0000",
		Titles:       DefaultTitles(),
		MaxLength:    maxLen,
	}
}

func testStamp() Stamp {
	return Stamp{Date: "شنبه💪 1403/05/12"}
}

func testGroups(n int) []domain.ProductGroup {
	groups := make([]domain.ProductGroup, 0, n)
	for i := range n {
		groups = append(groups, domain.ProductGroup{Lines: []domain.CatalogLine{
			{Text: fmt.Sprintf("🔵 A%02d 128GB Galaxy", i), Category: domain.CategorySamsung},
			{Text: "مشکی"},
			{Text: fmt.Sprintf("%d,000,000", i+1)},
			{Text: "آبی"},
			{Text: fmt.Sprintf("%d,100,000", i+1)},
		}})
	}
	return groups
}

func TestRenderGroup(t *testing.T) {
	t.Parallel()

	g := domain.ProductGroup{Lines: []domain.CatalogLine{
		{Text: "🔵 A15 Galaxy", Category: domain.CategorySamsung},
		{Text: "مشکی"},
		{Text: "6,800,000"},
		{Text: ""},
		{Text: "آبی"},
	}}
	assert.Equal(t, "🔵 A15 Galaxy\nمشکی | 6,800,000\nآبی", RenderGroup(g))
}

func TestPaginate_SingleBlock(t *testing.T) {
	t.Parallel()

	l := testLayout(DefaultMaxLength)
	blocks, err := l.Paginate(domain.CategorySamsung, testGroups(3), testStamp())
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, 0, b.Index)
	assert.Equal(t, domain.CategorySamsung, b.Category)
	assert.True(t, strings.HasPrefix(b.Text, "🗓 بروزرسانی شنبه💪 1403/05/12\n✅ لیست پخش\n\n⬅️ موجودی سامسونگ ➡️\n\n"))
	assert.True(t, strings.HasSuffix(b.Text, "\n\n☎️ تماس\n📞 0000"))
	assert.NotContains(t, b.Text, "🕓")
	assert.Len(t, b.Groups, 3)
}

func TestPaginate_SplitsWithoutBreakingGroups(t *testing.T) {
	t.Parallel()

	groups := testGroups(40)
	l := testLayout(400)

	blocks, err := l.Paginate(domain.CategorySamsung, groups, testStamp())
	require.NoError(t, err)
	require.Greater(t, len(blocks), 1)

	var rejoined []domain.ProductGroup
	for i, b := range blocks {
		assert.Equal(t, i, b.Index)
		assert.LessOrEqual(t, Length(b.Text), l.MaxLength, "block %d", i)
		require.NotEmpty(t, b.Groups)
		for _, g := range b.Groups {
			assert.Contains(t, b.Text, RenderGroup(g))
		}
		rejoined = append(rejoined, b.Groups...)

		if i == 0 {
			assert.Contains(t, b.Text, "⬅️ موجودی")
		} else {
			assert.True(t, strings.HasPrefix(b.Text, "🗓 شنبه💪 1403/05/12\n\n"))
			assert.NotContains(t, b.Text, "⬅️ موجودی")
		}

		hasFooter := strings.HasSuffix(b.Text, l.footer())
		assert.Equal(t, i == len(blocks)-1, hasFooter, "footer on block %d", i)
	}
	assert.Equal(t, groups, rejoined)
}

func TestPaginate_FooterReservedInLastGroup(t *testing.T) {
	t.Parallel()

	groups := testGroups(2)
	l := testLayout(DefaultMaxLength)
	header := l.Header(domain.CategorySamsung, testStamp())
	body := RenderGroup(groups[0]) + groupSeparator + RenderGroup(groups[1])

	// Room for both groups but not for the footer as well.
	l.MaxLength = Length(header + body)

	blocks, err := l.Paginate(domain.CategorySamsung, groups, testStamp())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, header+RenderGroup(groups[0]), blocks[0].Text)
	assert.True(t, strings.HasSuffix(blocks[1].Text, l.footer()))
}

func TestPaginate_OversizedGroupKeptWhole(t *testing.T) {
	t.Parallel()

	groups := testGroups(3)
	l := testLayout(20)

	blocks, err := l.Paginate(domain.CategorySamsung, groups, testStamp())
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		require.Len(t, b.Groups, 1)
		assert.Equal(t, groups[i], b.Groups[0])
		assert.Greater(t, Length(b.Text), l.MaxLength)
	}
}

func TestPaginate_TimeStamp(t *testing.T) {
	t.Parallel()

	l := testLayout(300)
	s := Stamp{Date: "شنبه💪 1403/05/12", Time: "14:05"}

	blocks, err := l.Paginate(domain.CategoryApple, testGroups(10), s)
	require.NoError(t, err)
	require.Greater(t, len(blocks), 1)
	assert.Contains(t, blocks[0].Text, "🕓 ساعت: 14:05")
	assert.True(t, strings.HasPrefix(blocks[1].Text, "🕓 14:05\n\n"))
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	blocks, err := testLayout(DefaultMaxLength).Paginate(domain.CategoryConsole, nil, testStamp())
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestPaginate_NonPositiveMax(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		_, err := testLayout(n).Paginate(domain.CategorySamsung, testGroups(1), testStamp())
		require.ErrorIs(t, err, ErrMaxLength)
	}
}

func TestLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, Length("abc"))
	assert.Equal(t, 4, Length("مشکی"))
	// Astral plane emoji count as a surrogate pair.
	assert.Equal(t, 2, Length("🔵"))
	assert.Equal(t, 2, Length("☺️"))
}

func TestEscapeMarkdownV2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `A15 \| 6,800,000\.`, EscapeMarkdownV2("A15 | 6,800,000."))
	assert.Equal(t, `\(a\)\[b\]\_\*\~\>\#\+\-\=\{\}\!\\`, EscapeMarkdownV2(`(a)[b]_*~>#+-={}!\`))
	assert.Equal(t, "مشکی", EscapeMarkdownV2("مشکی"))
}

func TestNewStamp(t *testing.T) {
	t.Parallel()

	tehran := time.FixedZone("IRST", 3*3600+1800)
	// 2024-08-03 is a Saturday, 1403/05/13 in the Jalali calendar.
	ts := time.Date(2024, 8, 3, 9, 7, 0, 0, tehran)

	s := NewStamp(ts, CalendarJalali, false)
	assert.Equal(t, "شنبه💪 1403/05/13", s.Date)
	assert.Empty(t, s.Time)

	s = NewStamp(ts, CalendarGregorian, true)
	assert.Equal(t, "شنبه💪 2024/08/03", s.Date)
	assert.Equal(t, "09:07", s.Time)

	assert.Equal(t, "2024-08-03", LedgerDate(ts))
}

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	assert.Equal(t, DefaultMaxLength, l.MaxLength)
	assert.Equal(t, "آیفون", l.Title(domain.CategoryApple))
	assert.Empty(t, l.footer())
}
