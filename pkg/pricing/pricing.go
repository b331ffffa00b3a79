// Package pricing maps scraped price tokens to published display prices.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tier is one band of the markup table. A tier applies to values up to and
// including Max; a Max of zero means the band is unbounded.
type Tier struct {
	Max        float64 `yaml:"max"`
	Surcharge  float64 `yaml:"surcharge"`
	Multiplier float64 `yaml:"multiplier"`
}

// Policy is the tiered markup applied to every numeric price.
type Policy struct {
	// Floor collapses values at or below it to zero.
	Floor float64 `yaml:"floor"`
	// Tiers are evaluated in order; the first matching band wins.
	Tiers []Tier `yaml:"tiers"`
	// RoundTo is the rounding quantum. Halves round to even.
	RoundTo float64 `yaml:"round_to"`
}

// DefaultPolicy returns the canonical markup table.
func DefaultPolicy() Policy {
	return Policy{
		Floor: 1,
		Tiers: []Tier{
			{Max: 7_000_000, Surcharge: 260_000},
			{Max: 10_000_000, Multiplier: 1.035},
			{Max: 20_000_000, Multiplier: 1.025},
			{Max: 30_000_000, Multiplier: 1.02},
			{Multiplier: 1.015},
		},
		RoundTo: 100_000,
	}
}

// maxPrice bounds accepted values so every result fits an int64.
const maxPrice = 1e15

var printer = message.NewPrinter(language.English)

// digitReplacer maps Persian and Arabic-Indic digits to ASCII and drops the
// grouping separators the retailer uses.
var digitReplacer = strings.NewReplacer(
	",", "", "٬", "", "،", "",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Parse returns the numeric value of token after stripping grouping
// separators. Only finite values in [0, 1e15] are accepted.
func Parse(token string) (float64, bool) {
	cleaned := strings.TrimSpace(digitReplacer.Replace(token))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxPrice {
		return 0, false
	}
	return v, true
}

// Apply runs value through the markup table and rounds the result.
func (p Policy) Apply(value float64) float64 {
	if value <= p.Floor {
		return 0
	}

	adjusted := value
	for _, t := range p.Tiers {
		if t.Max != 0 && value > t.Max {
			continue
		}
		adjusted = value + t.Surcharge
		if t.Multiplier != 0 {
			adjusted *= t.Multiplier
		}
		break
	}

	if p.RoundTo <= 0 {
		return math.RoundToEven(adjusted)
	}
	return math.RoundToEven(adjusted/p.RoundTo) * p.RoundTo
}

// Normalize converts a price token into its display form. Tokens that are
// not valid prices are returned unchanged.
func (p Policy) Normalize(token string) string {
	v, ok := Parse(token)
	if !ok {
		return token
	}
	return Format(p.Apply(v))
}

// Format renders v with thousands separators and no decimals.
func Format(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Normalize applies the default policy to token.
func Normalize(token string) string {
	return DefaultPolicy().Normalize(token)
}
