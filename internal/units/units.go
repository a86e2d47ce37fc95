package units

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FixedPointScale is the number of ledger base units per whole currency
// token (seven fractional digits).
const FixedPointScale = 10_000_000

// BasisPointsPerPercent converts between basis points and percent.
const BasisPointsPerPercent = 100

var (
	fixedPointScale = decimal.NewFromInt(FixedPointScale)
	bpsPerPercent   = decimal.NewFromInt(BasisPointsPerPercent)
)

// Coerce turns a loosely typed ledger value into a decimal. Boundary
// values may arrive as json.Number, string, float, or integer depending
// on how the envelope was encoded; anything absent or unparsable
// coerces to zero rather than failing.
func Coerce(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint64:
		return decimal.NewFromUint64(v)
	case int32:
		return decimal.NewFromInt32(v)
	default:
		return decimal.Zero
	}
}

// ToDecimal converts a raw fixed-point amount into whole currency units.
func ToDecimal(raw any) decimal.Decimal {
	return Coerce(raw).Div(fixedPointScale)
}

// ToFixedPoint converts whole currency units into ledger base units,
// truncating anything below the seventh fractional digit.
func ToFixedPoint(d decimal.Decimal) int64 {
	return d.Mul(fixedPointScale).IntPart()
}

// BasisPointsToPercent converts a raw basis-point value to a percentage.
func BasisPointsToPercent(raw any) decimal.Decimal {
	return Coerce(raw).Div(bpsPerPercent)
}

// PercentToBasisPoints converts a percentage to integer basis points.
func PercentToBasisPoints(d decimal.Decimal) int64 {
	return d.Mul(bpsPerPercent).IntPart()
}
