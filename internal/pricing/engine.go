package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/internal/catalog"
)

// AddOnCharge is the price actually charged for one selected add-on.
type AddOnCharge struct {
	AddOn    catalog.AddOn   `json:"add_on"`
	Charged  decimal.Decimal `json:"charged"`
	Promoted bool            `json:"promoted"`
}

// Quote is the result of pricing one device configuration.
type Quote struct {
	BasePlusCustomizations decimal.Decimal `json:"base_plus_customizations"`
	AddOns                 []AddOnCharge   `json:"add_ons"`
	Total                  decimal.Decimal `json:"total"`
	Currency               string          `json:"currency"`
}

// Compute prices a device configuration. It is pure and idempotent: the same
// inputs always yield the same quote and nothing is cached or mutated, so
// callers must re-invoke it after every selection change. Promotion
// eligibility depends on the current base-plus-customizations figure, which is
// why a previously charged add-on can become free when a later option
// selection raises the base.
//
// Unselected groups contribute zero; toggled add-on ids with no matching
// record on the device contribute zero. Compute never fails.
func Compute(device catalog.AggregatedDevice, selectedOptions map[string]catalog.Option, selectedAddOns map[int64]bool) Quote {
	base := device.Device.BasePrice
	for _, option := range selectedOptions {
		base = base.Add(option.AdditionalPrice)
	}

	quote := Quote{
		BasePlusCustomizations: base,
		Total:                  base,
		Currency:               device.Device.Currency,
	}

	for _, addOn := range device.AddOns {
		if !selectedAddOns[addOn.ID] {
			continue
		}
		charged := ChargedPrice(addOn, base)
		quote.AddOns = append(quote.AddOns, AddOnCharge{
			AddOn:    addOn,
			Charged:  charged,
			Promoted: addOn.HasPromotion() && base.GreaterThanOrEqual(addOn.FreeAbove),
		})
		quote.Total = quote.Total.Add(charged)
	}

	return quote
}

// ChargedPrice applies the free-above-threshold rule to one add-on. The
// comparison is inclusive: a base exactly at the threshold qualifies. A
// threshold equal to the sentinel never promotes.
func ChargedPrice(addOn catalog.AddOn, basePlusCustomizations decimal.Decimal) decimal.Decimal {
	if addOn.HasPromotion() && basePlusCustomizations.GreaterThanOrEqual(addOn.FreeAbove) {
		return decimal.Zero
	}
	return addOn.Price
}
