package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "surcharge tier example", token: "6500000", want: "6,800,000"},
		{name: "grouped input", token: "6,500,000", want: "6,800,000"},
		{name: "persian separator", token: "6٬500٬000", want: "6,800,000"},
		{name: "persian digits", token: "۶۵۰۰۰۰۰", want: "6,800,000"},
		{name: "upper edge of surcharge tier", token: "7000000", want: "7,300,000"},
		{name: "3.5 percent tier", token: "8000000", want: "8,300,000"},
		{name: "2.5 percent tier", token: "15000000", want: "15,400,000"},
		{name: "2 percent tier", token: "25000000", want: "25,500,000"},
		{name: "1.5 percent open tier", token: "50000000", want: "50,800,000"},
		{name: "one collapses to zero", token: "1", want: "0"},
		{name: "zero collapses to zero", token: "0", want: "0"},
		{name: "surrounding whitespace", token: "  6500000 ", want: "6,800,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.token))
		})
	}
}

func TestNormalize_NonNumericPassesThrough(t *testing.T) {
	t.Parallel()

	tokens := []string{
		"Black",
		"A15 128GB",
		"",
		"NaN",
		"Inf",
		"-5000",
		"12abc",
		"1e400",
	}

	for _, tok := range tokens {
		assert.Equal(t, tok, Normalize(tok), "token %q", tok)
	}
}

func TestApply_RoundHalfToEven(t *testing.T) {
	t.Parallel()

	p := Policy{Tiers: []Tier{{Multiplier: 1}}, RoundTo: 100_000}

	assert.InDelta(t, 200_000, p.Apply(250_000), 0)
	assert.InDelta(t, 400_000, p.Apply(350_000), 0)
	assert.InDelta(t, 300_000, p.Apply(250_001), 0)
}

func TestApply_FirstMatchingTierWins(t *testing.T) {
	t.Parallel()

	p := Policy{
		Tiers: []Tier{
			{Max: 100, Surcharge: 10},
			{Max: 100, Surcharge: 1000},
		},
		RoundTo: 1,
	}
	assert.InDelta(t, 110, p.Apply(100), 0)
}

func TestNormalize_Deterministic(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	for _, tok := range []string{"1234567", "9999999", "31000000", "2"} {
		first := p.Normalize(tok)
		for range 5 {
			assert.Equal(t, first, p.Normalize(tok))
		}
	}
}

func TestNormalize_OutputShape(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	for _, tok := range []string{"2", "999", "1000001", "12345678", "987654321", "1e9"} {
		got := p.Normalize(tok)
		assert.NotContains(t, got, "-")
		assert.NotContains(t, got, ".")
		for _, part := range strings.Split(got, ",")[1:] {
			assert.Len(t, part, 3, "group in %q", got)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	v, ok := Parse("12,500")
	assert.True(t, ok)
	assert.InDelta(t, 12500, v, 0)

	_, ok = Parse("  ")
	assert.False(t, ok)

	_, ok = Parse("2e15")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Format(0))
	assert.Equal(t, "999", Format(999))
	assert.Equal(t, "1,000", Format(1000))
	assert.Equal(t, "12,300,000", Format(12_300_000))
}
