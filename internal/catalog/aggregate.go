package catalog

// Aggregate joins the five source collections into one denormalized view per
// device. Groups, add-ons, and features attach to the device whose id they
// reference; options attach to their owning group. Insertion order of the
// source collections is preserved. Orphaned options are dropped and groups
// without options stay empty; no error is raised for either.
func Aggregate(snapshot Snapshot) []AggregatedDevice {
	optionsByGroup := make(map[int64][]Option, len(snapshot.Groups))
	for _, option := range snapshot.Options {
		if option.GroupID == nil {
			continue
		}
		optionsByGroup[*option.GroupID] = append(optionsByGroup[*option.GroupID], option)
	}

	aggregated := make([]AggregatedDevice, 0, len(snapshot.Devices))
	for _, device := range snapshot.Devices {
		view := AggregatedDevice{Device: device}

		for _, group := range snapshot.Groups {
			if group.DeviceID != device.ID {
				continue
			}
			joined := group
			joined.Options = append([]Option(nil), optionsByGroup[group.ID]...)
			view.Groups = append(view.Groups, joined)
		}

		for _, addOn := range snapshot.AddOns {
			if addOn.DeviceID == device.ID {
				view.AddOns = append(view.AddOns, addOn)
			}
		}

		for _, feature := range snapshot.Features {
			if feature.DeviceID == device.ID {
				view.Features = append(view.Features, feature)
			}
		}

		aggregated = append(aggregated, view)
	}
	return aggregated
}
