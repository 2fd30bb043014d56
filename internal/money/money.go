// Package money provides a fixed-point currency amount stored as integer
// minor units (cents). All arithmetic happens on int64 cents; floating point
// values are only produced for display.
package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency is an upper-case ISO 4217 code such as "USD".
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

var symbols = map[Currency]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF ",
}

var ErrInvalidAmount = errors.New("invalid amount")

// CurrencyMismatchError is returned when two amounts of different currencies
// are combined.
type CurrencyMismatchError struct {
	Left  Currency
	Right Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

// NewCurrency validates code against the ISO 4217 table and returns its
// canonical form.
func NewCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// Symbol returns the display symbol for c, falling back to the code itself.
func (c Currency) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c) + " "
}

// Amount is a number of minor units tagged with a currency.
type Amount struct {
	Cents    int64
	Currency Currency
}

// New returns an amount of cents in cur.
func New(cents int64, cur Currency) Amount {
	return Amount{Cents: cents, Currency: cur}
}

// Zero returns the zero amount in cur.
func Zero(cur Currency) Amount {
	return Amount{Currency: cur}
}

var (
	plainAmount   = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)
	groupedAmount = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalComma  = regexp.MustCompile(`^\d+,\d{1,2}$`)

	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Parse converts a non-negative decimal string to an amount, rounding
// half-up on the third fractional digit. Accepted forms are "1234.5",
// "1,234.50" (comma thousands separators) and "12,34" (a lone decimal
// comma followed by one or two digits). Signs and exponents are rejected,
// as is any value that does not fit in int64 cents.
func Parse(s string, cur Currency) (Amount, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Amount{}, ErrInvalidAmount
	}
	norm := raw
	switch {
	case decimalComma.MatchString(norm):
		norm = strings.Replace(norm, ",", ".", 1)
	case groupedAmount.MatchString(norm):
		norm = strings.ReplaceAll(norm, ",", "")
	}
	if !plainAmount.MatchString(norm) {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) {
		return Amount{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, raw)
	}
	return Amount{Cents: cents.IntPart(), Currency: cur}, nil
}

func (a Amount) check(b Amount) error {
	if a.Currency != b.Currency {
		return &CurrencyMismatchError{Left: a.Currency, Right: b.Currency}
	}
	return nil
}

// Add returns a+b.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.check(b); err != nil {
		return Amount{}, err
	}
	return Amount{Cents: a.Cents + b.Cents, Currency: a.Currency}, nil
}

// Sub returns a-b. The result may be negative; callers must check.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.check(b); err != nil {
		return Amount{}, err
	}
	return Amount{Cents: a.Cents - b.Cents, Currency: a.Currency}, nil
}

// Mul returns the amount multiplied by an integer quantity.
func (a Amount) Mul(qty int64) Amount {
	return Amount{Cents: a.Cents * qty, Currency: a.Currency}
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.check(b); err != nil {
		return 0, err
	}
	switch {
	case a.Cents < b.Cents:
		return -1, nil
	case a.Cents > b.Cents:
		return 1, nil
	}
	return 0, nil
}

func (a Amount) IsZero() bool     { return a.Cents == 0 }
func (a Amount) IsNegative() bool { return a.Cents < 0 }
func (a Amount) IsPositive() bool { return a.Cents > 0 }

// Float returns the major-unit value for display. Do not compute with it.
func (a Amount) Float() float64 {
	return float64(a.Cents) / 100.0
}

// Decimal returns the exact major-unit value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Cents, -2)
}

// String formats the amount with its currency symbol, thousands separators
// and two decimal places, e.g. "-$1,100.00".
func (a Amount) String() string {
	cents := a.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	major := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range major {
		if i > 0 && (len(major)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, a.Currency.Symbol(), b.String(), cents%100)
}

// Sum adds amounts starting from zero in cur.
func Sum(cur Currency, amounts ...Amount) (Amount, error) {
	total := Zero(cur)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}
