package catalog

import "github.com/shopspring/decimal"

// NoPromotion is the threshold sentinel meaning an add-on never promotes.
var NoPromotion = decimal.NewFromInt(-1)

// Device is a purchasable catalog item with a base price. Immutable catalog fact.
type Device struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency"`
}

// CustomizationGroup is a named set of mutually exclusive options attached to
// exactly one device.
type CustomizationGroup struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DeviceID    int64    `json:"device_id"`
	Options     []Option `json:"options"`
}

// Option is one choice within a customization group. GroupID is a plain
// foreign key used only for filtering; it is nil for orphaned records.
type Option struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
	GroupID         *int64          `json:"group_id,omitempty"`
}

// AddOn is an independently toggleable extra, possibly free once the
// base-plus-customizations price reaches FreeAbove.
type AddOn struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	FreeAbove   decimal.Decimal `json:"free_above"`
	DeviceID    int64           `json:"device_id"`
}

// HasPromotion reports whether the add-on carries a free-above rule at all.
func (a AddOn) HasPromotion() bool {
	return !a.FreeAbove.Equal(NoPromotion)
}

// Feature is display-only device metadata with no pricing role.
type Feature struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DeviceID    int64  `json:"device_id"`
}

// Snapshot holds the five independently fetched source collections.
type Snapshot struct {
	Devices  []Device
	Groups   []CustomizationGroup
	Options  []Option
	AddOns   []AddOn
	Features []Feature
}

// AggregatedDevice is the denormalized per-device view produced by Aggregate.
// Consumers hold it as a shared immutable value.
type AggregatedDevice struct {
	Device   Device               `json:"device"`
	Groups   []CustomizationGroup `json:"customization_groups"`
	AddOns   []AddOn              `json:"add_ons"`
	Features []Feature            `json:"features"`
}

// FindAddOn resolves an add-on on the device by id.
func (d AggregatedDevice) FindAddOn(id int64) (AddOn, bool) {
	for _, addOn := range d.AddOns {
		if addOn.ID == id {
			return addOn, true
		}
	}
	return AddOn{}, false
}

// FindGroup resolves a customization group on the device by name.
func (d AggregatedDevice) FindGroup(name string) (CustomizationGroup, bool) {
	for _, group := range d.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return CustomizationGroup{}, false
}
