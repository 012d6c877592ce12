package catalog

func slots(codes ...string) []Slot {
	out := make([]Slot, len(codes))
	for i, c := range codes {
		out[i] = Slot{ID: c, Code: c}
	}
	return out
}

var Builtin = []Formation{
	{Code: "4-4-2", Name: "4-4-2 Flat", Slots: slots(
		"GK",
		"LB", "LCB", "RCB", "RB",
		"LM", "LCM", "RCM", "RM",
		"LST", "RST",
	)},
	{Code: "4-3-3", Name: "4-3-3 Attack", Slots: slots(
		"GK",
		"LB", "LCB", "RCB", "RB",
		"LCM", "CM", "RCM",
		"LW", "ST", "RW",
	)},
	{Code: "4-2-3-1", Name: "4-2-3-1 Wide", Slots: slots(
		"GK",
		"LB", "LCB", "RCB", "RB",
		"LDM", "RDM",
		"LAM", "CAM", "RAM",
		"ST",
	)},
	{Code: "3-5-2", Name: "3-5-2", Slots: slots(
		"GK",
		"LCB", "CB", "RCB",
		"LWB", "LCM", "CM", "RCM", "RWB",
		"LST", "RST",
	)},
	{Code: "3-4-3", Name: "3-4-3 Flat", Slots: slots(
		"GK",
		"LCB", "CB", "RCB",
		"LM", "LCM", "RCM", "RM",
		"LW", "ST", "RW",
	)},
	{Code: "5-3-2", Name: "5-3-2", Slots: slots(
		"GK",
		"LWB", "LCB", "CB", "RCB", "RWB",
		"LCM", "CM", "RCM",
		"LST", "RST",
	)},
}
