// Package analysis turns a round-trip factor into investment impact:
// profit or loss in starting-asset units, and its approximate USD value
// when a USD quote for the starting asset is known.
package analysis

import (
	"github.com/shopspring/decimal"
)

type Impact struct {
	StartAsset string          `json:"start_asset"`
	Investment decimal.Decimal `json:"investment"`
	Factor     float64         `json:"factor"`
	// DeltaUnits is positive for profit, negative for loss, in units of
	// the starting asset.
	DeltaUnits decimal.Decimal  `json:"delta_units"`
	DeltaUSD   *decimal.Decimal `json:"delta_usd,omitempty"`
	USDRate    *decimal.Decimal `json:"usd_rate,omitempty"`
}

// Compute derives the impact of running investment units of startAsset
// through a cycle with the given factor. usdRates may be nil or miss the
// asset; USD fields stay nil then.
func Compute(startAsset string, factor, investment float64, usdRates map[string]float64) Impact {
	inv := decimal.NewFromFloat(investment)
	delta := inv.Mul(decimal.NewFromFloat(factor).Sub(decimal.NewFromInt(1)))

	imp := Impact{
		StartAsset: startAsset,
		Investment: inv,
		Factor:     factor,
		DeltaUnits: delta,
	}
	if rate, ok := usdRates[startAsset]; ok && rate > 0 {
		r := decimal.NewFromFloat(rate)
		usd := delta.Mul(r)
		imp.USDRate = &r
		imp.DeltaUSD = &usd
	}
	return imp
}
