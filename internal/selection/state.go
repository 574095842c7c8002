package selection

import "github.com/dromero/devicestore-backend/internal/catalog"

// State is the user's in-progress configuration for one device session: at
// most one chosen option per customization group, plus a set of add-on
// toggles. A group with no entry is unselected; an absent add-on id means not
// selected.
type State struct {
	Options map[string]catalog.Option `json:"options"`
	AddOns  map[int64]bool            `json:"add_ons"`
}

// NewState returns an empty selection state.
func NewState() State {
	return State{
		Options: make(map[string]catalog.Option),
		AddOns:  make(map[int64]bool),
	}
}

// SelectOption records the chosen option for a group, overwriting any prior
// choice. Last write wins. The option is not validated against any device;
// resolution happens at the API boundary.
func (s *State) SelectOption(groupName string, option catalog.Option) {
	if s.Options == nil {
		s.Options = make(map[string]catalog.Option)
	}
	s.Options[groupName] = option
}

// SetAddOn sets an add-on toggle to an explicit value. Idempotent.
func (s *State) SetAddOn(addOnID int64, selected bool) {
	if s.AddOns == nil {
		s.AddOns = make(map[int64]bool)
	}
	s.AddOns[addOnID] = selected
}

// ToggleAddOn flips an add-on toggle and returns the new value.
func (s *State) ToggleAddOn(addOnID int64) bool {
	next := !s.AddOns[addOnID]
	s.SetAddOn(addOnID, next)
	return next
}

// SelectedAddOnIDs returns the set of add-on ids currently toggled on.
func (s *State) SelectedAddOnIDs() map[int64]bool {
	selected := make(map[int64]bool, len(s.AddOns))
	for id, on := range s.AddOns {
		if on {
			selected[id] = true
		}
	}
	return selected
}
