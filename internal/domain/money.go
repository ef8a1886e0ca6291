package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/text/currency"
)

// Money is an amount in a single currency. Amounts in different currencies
// are never added together; aggregates carry one Money per currency.
type Money struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// NormalizeCurrency validates an ISO 4217 code and returns it upper-cased.
func NormalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency %q", ErrValidation, code)
	}
	return unit.String(), nil
}

// MaxRate is the largest hourly rate the NUMERIC(12,2) column can hold.
const MaxRate = 9_999_999_999.99

// RateCents converts an hourly rate with at most two decimals to whole
// cents. ValidRate reports whether rate has that shape.
func RateCents(rate float64) int64 {
	return int64(math.Round(rate * 100))
}

// ValidRate reports whether rate is finite, non-negative, within MaxRate
// and expressible in whole cents.
func ValidRate(rate float64) bool {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 || rate > MaxRate {
		return false
	}
	// The shortest decimal form is what the client sent.
	digits := strconv.FormatFloat(rate, 'f', -1, 64)
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		return len(digits)-i-1 <= 2
	}
	return true
}

// Earnings is an exact billable value in cent-minutes per hour
// (minutes × rate in cents). Dividing by 60 gives cents; that division is
// the only rounding step, so sums of Earnings stay exact.
type Earnings int64

// Earn returns the exact value of minutes at rate per hour.
func Earn(minutes int, rate float64) Earnings {
	return Earnings(int64(minutes) * RateCents(rate))
}

// Cents rounds e to whole cents, half up. Earnings are never negative.
func (e Earnings) Cents() int64 {
	return (int64(e) + 30) / 60
}

// Amount returns e in currency units rounded to cents.
func (e Earnings) Amount() float64 {
	return float64(e.Cents()) / 100
}

// Hours converts minutes to hours at one decimal, half up. Minute precision
// is kept everywhere else; this is for display fields only.
func Hours(minutes int) float64 {
	return RoundHours(float64(minutes) / 60.0)
}

// RoundHours rounds an hour figure to one decimal, half up.
func RoundHours(h float64) float64 {
	r, err := stats.Round(h, 1)
	if err != nil { // only NaN
		return 0
	}
	return r
}

// Tally accumulates exact per-currency earnings. Rounding happens once, when
// the totals are read, so per-entry rounding errors do not compound.
type Tally map[string]Earnings

// Add records e under code. A zero value still registers the currency so
// an unrated project shows up as a 0.00 subtotal.
func (t Tally) Add(code string, e Earnings) {
	t[code] += e
}

// Totals returns the rounded subtotals sorted by currency code.
// Never returns nil.
func (t Tally) Totals() []Money {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	out := make([]Money, 0, len(codes))
	for _, c := range codes {
		out = append(out, Money{Currency: c, Amount: t[c].Amount()})
	}
	return out
}
