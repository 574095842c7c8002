package purchase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/internal/catalog"
	"github.com/dromero/devicestore-backend/internal/pricing"
	"github.com/dromero/devicestore-backend/internal/selection"
	pkgerrors "github.com/dromero/devicestore-backend/pkg/errors"
)

// GroupLine is the charged choice for one customization group.
type GroupLine struct {
	GroupID  int64           `json:"group_id"`
	OptionID int64           `json:"option_id"`
	Charged  decimal.Decimal `json:"charged"`
}

// AddOnLine is the charged price for one selected add-on.
type AddOnLine struct {
	AddOnID int64           `json:"add_on_id"`
	Charged decimal.Decimal `json:"charged"`
}

// Record is the finalized, submittable representation of a completed
// configuration. Constructed once at submission time, immutable afterward.
type Record struct {
	DeviceID  int64           `json:"device_id"`
	Groups    []GroupLine     `json:"groups"`
	AddOns    []AddOnLine     `json:"add_ons"`
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
}

// Assemble builds the purchase record for a device and selection state.
//
// Every group on the device yields a line: the user's selection when present,
// otherwise the group's first listed option. A group with no options and no
// selection aborts assembly. Add-on charges are re-derived through the same
// promotion rule the quote used; confirmedTotal is the total the user saw
// when confirming, and any disagreement with the recomputed total means the
// selection changed in between, so the record must not be submitted.
func Assemble(device catalog.AggregatedDevice, state selection.State, confirmedTotal decimal.Decimal, now time.Time) (*Record, error) {
	quote := pricing.Compute(device, state.Options, state.SelectedAddOnIDs())

	if !quote.Total.Equal(confirmedTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeStaleTotal, "confirmed total no longer matches the current selection").WithDetails(map[string]any{
			"confirmed_total":  confirmedTotal,
			"recomputed_total": quote.Total,
		})
	}

	record := &Record{
		DeviceID:  device.Device.ID,
		Total:     quote.Total,
		Timestamp: now.UTC().Truncate(time.Second).Format(time.RFC3339),
	}

	for _, group := range device.Groups {
		chosen, ok := state.Options[group.Name]
		if !ok {
			if len(group.Options) == 0 {
				return nil, pkgerrors.New(pkgerrors.CodeAssemblyPrecondition, "customization group has no options to default to").WithDetails(map[string]any{
					"group_id":   group.ID,
					"group_name": group.Name,
				})
			}
			chosen = group.Options[0]
		}
		record.Groups = append(record.Groups, GroupLine{
			GroupID:  group.ID,
			OptionID: chosen.ID,
			Charged:  chosen.AdditionalPrice,
		})
	}

	for _, addOn := range device.AddOns {
		if !state.AddOns[addOn.ID] {
			continue
		}
		record.AddOns = append(record.AddOns, AddOnLine{
			AddOnID: addOn.ID,
			Charged: pricing.ChargedPrice(addOn, quote.BasePlusCustomizations),
		})
	}

	return record, nil
}
