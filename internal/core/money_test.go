package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1, true},
		{"25000", 25000, true},
		{" 8500000 ", 8500000, true},
		{"Rp 25000", 25000, true},
		{"12.4", 12, true},
		{"12.5", 13, true}, // half-up rounding
		{"12,5", 13, true},
		{"0.5", 1, true},
		{"0.4", 0, false},
		{",5", 1, true},
		{"99999999999999999999", 0, false},
		{"1000000000000000", 1_000_000_000_000_000, true},
		{"1000000000000001", 0, false},
		{"9223372036854775807", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1e3", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"٣", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Units != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Units, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		500:      "Rp 500",
		25000:    "Rp 25.000",
		1250000:  "Rp 1.250.000",
		-50000:   "-Rp 50.000",
		12345678: "Rp 12.345.678",
	}
	for in, want := range cases {
		if got := FormatRupiah(Rp(in)); got != want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMoneyUnmarshalRoundsFractions(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`25000.5`), &m); err != nil || m.Units != 25001 {
		t.Fatalf("got %d err=%v", m.Units, err)
	}
	if err := json.Unmarshal([]byte(`"25000"`), &m); err == nil {
		t.Fatalf("expected error for string amount")
	}
}

func TestMoneyArithmeticSaturates(t *testing.T) {
	tests := []struct {
		name string
		got  Money
		want int64
	}{
		{"add", Rp(7).Add(Rp(5)), 12},
		{"sub", Rp(7).Sub(Rp(10)), -3},
		{"add overflow", Rp(math.MaxInt64).Add(Rp(1)), math.MaxInt64},
		{"add underflow", Rp(math.MinInt64).Add(Rp(-1)), math.MinInt64},
		{"sub overflow", Rp(math.MaxInt64).Sub(Rp(-1)), math.MaxInt64},
		{"sub underflow", Rp(math.MinInt64 + 1).Sub(Rp(2)), math.MinInt64},
		{"abs of min", Rp(math.MinInt64).Abs(), math.MaxInt64},
	}
	for _, tt := range tests {
		if tt.got.Units != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got.Units, tt.want)
		}
	}
	if err := MaxAmount.Validate(); err != nil {
		t.Errorf("MaxAmount should validate: %v", err)
	}
	if err := MaxAmount.Add(Rp(1)).Validate(); err == nil {
		t.Error("amount above MaxAmount should not validate")
	}
}
