package units

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToDecimal(t *testing.T) {
	got := ToDecimal(json.Number("500000000"))
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("500000000 base units = %s, want 50", got)
	}
}

func TestToDecimalStringEncoded(t *testing.T) {
	got := ToDecimal("10000000")
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("string-encoded amount = %s, want 1", got)
	}
}

func TestToDecimalAbsentValue(t *testing.T) {
	if got := ToDecimal(nil); !got.IsZero() {
		t.Fatalf("nil should coerce to zero, got %s", got)
	}
	if got := ToDecimal("not-a-number"); !got.IsZero() {
		t.Fatalf("garbage should coerce to zero, got %s", got)
	}
}

func TestFixedPointRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "0.0000001", "123.4567891", "1000000000"}
	tolerance := decimal.New(1, -7)
	for _, c := range cases {
		want, err := decimal.NewFromString(c)
		if err != nil {
			t.Fatalf("parse %q: %v", c, err)
		}
		got := ToDecimal(ToFixedPoint(want))
		if got.Sub(want).Abs().GreaterThan(tolerance) {
			t.Fatalf("round-trip of %s = %s", want, got)
		}
	}
}

func TestLargeAmountPrecision(t *testing.T) {
	// 10^15 base units must survive without float truncation.
	got := ToDecimal(json.Number("1000000000000000"))
	want := decimal.NewFromInt(100_000_000)
	if !got.Equal(want) {
		t.Fatalf("10^15 base units = %s, want %s", got, want)
	}
}

func TestBasisPointsToPercent(t *testing.T) {
	got := BasisPointsToPercent(json.Number("250"))
	want := decimal.RequireFromString("2.5")
	if !got.Equal(want) {
		t.Fatalf("250 bps = %s, want 2.5", got)
	}

	if back := PercentToBasisPoints(got); back != 250 {
		t.Fatalf("2.5%% = %d bps, want 250", back)
	}
}
