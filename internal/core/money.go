// Package core provides the ledger domain types.
//
// This file contains amount parsing and Rupiah formatting. Amounts are whole
// currency units; no fractional part is tracked.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in whole currency units.
type Money struct {
	Units int64
}

// Rp is shorthand for a Money of n units.
func Rp(n int64) Money {
	return Money{Units: n}
}

// MaxAmount is the largest amount a single transaction may carry.
var MaxAmount = Rp(1_000_000_000_000_000)

// Validate accepts amounts in 1..MaxAmount.
func (m Money) Validate() error {
	if m.Units <= 0 || m.Units > MaxAmount.Units {
		return ErrInvalidAmount
	}
	return nil
}

// Add and Sub saturate at the int64 limits instead of wrapping.
func (m Money) Add(o Money) Money {
	sum := m.Units + o.Units
	switch {
	case o.Units > 0 && sum < m.Units:
		sum = math.MaxInt64
	case o.Units < 0 && sum > m.Units:
		sum = math.MinInt64
	}
	return Money{Units: sum}
}

func (m Money) Sub(o Money) Money {
	diff := m.Units - o.Units
	switch {
	case o.Units < 0 && diff < m.Units:
		diff = math.MaxInt64
	case o.Units > 0 && diff > m.Units:
		diff = math.MinInt64
	}
	return Money{Units: diff}
}

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m.Units == math.MinInt64 {
		return Money{Units: math.MaxInt64}
	}
	if m.Units < 0 {
		return Money{Units: -m.Units}
	}
	return m
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Units, 10)), nil
}

// UnmarshalJSON accepts any JSON number; fractions are rounded half-up
// because older snapshots may hold values produced by a float parser.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return ErrInvalidAmount
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidAmount
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return ErrInvalidAmount
	}
	units, ok := wholeUnits(d)
	if !ok {
		return ErrInvalidAmount
	}
	m.Units = units
	return nil
}

// ParseAmount converts user input to a positive whole amount.
//
// It accepts an optional "Rp" prefix, a dot or comma decimal separator and
// rounds half-up to whole units. Signs, exponents and anything that is not a
// plain decimal are rejected, as are values that round to zero or exceed
// MaxAmount.
//
// Examples:
//
//	ParseAmount("25000")     -> 25000, nil
//	ParseAmount("Rp 25000")  -> 25000, nil
//	ParseAmount("12.5")      -> 13, nil
//	ParseAmount("0.4")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "Rp"))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || s == "." || strings.Count(s, ".") > 1 {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return Money{}, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	units, ok := wholeUnits(d)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Units: units}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// wholeUnits rounds d half away from zero; ok is false when the result
// does not fit an int64.
func wholeUnits(d decimal.Decimal) (int64, bool) {
	r := d.Round(0).BigInt()
	if !r.IsInt64() {
		return 0, false
	}
	return r.Int64(), true
}

// FormatRupiah renders m the way id-ID currency formatting does,
// e.g. "Rp 1.250.000" or "-Rp 50.000".
func FormatRupiah(m Money) string {
	n := m.Units
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m Money) String() string {
	return FormatRupiah(m)
}
