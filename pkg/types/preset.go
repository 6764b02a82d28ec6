package types

// Loadout records which entry occupied each cycle slot at capture time. An
// empty string means the slot was empty. Loadouts hold identifiers, not
// entries, so they stay valid when the resource disappears.
type Loadout [NumCycleSlots]string

// NewLoadout builds a loadout from per-slot identifiers.
func NewLoadout(power, left, right, utility string) Loadout {
	var l Loadout
	l[SlotPower] = power
	l[SlotLeft] = left
	l[SlotRight] = right
	l[SlotUtility] = utility
	return l
}

// Get returns the identifier captured for the slot, or "" for an empty or
// non-cycle slot.
func (l Loadout) Get(s Slot) string {
	if !s.IsCycle() {
		return ""
	}
	return l[s]
}

// With returns a copy of l with the slot set to id. Non-cycle slots are ignored.
func (l Loadout) With(s Slot, id string) Loadout {
	if s.IsCycle() {
		l[s] = id
	}
	return l
}

// IsEmpty reports whether no slot holds an identifier.
func (l Loadout) IsEmpty() bool {
	for _, id := range l {
		if id != "" {
			return false
		}
	}
	return true
}

// Valid reports whether every captured identifier is empty or a ValidID.
func (l Loadout) Valid() bool {
	for _, id := range l {
		if id != "" && !ValidID(id) {
			return false
		}
	}
	return true
}

// Preset is a named equipment set: a loadout snapshot with an optional icon
// override. IDs are assigned by the preset store; names need not be unique.
type Preset struct {
	ID      uint32  `json:"id"`
	Name    string  `json:"name"`
	Loadout Loadout `json:"loadout"`

	// Icon is the identifier of the entry whose icon represents this preset.
	// Empty means no override.
	Icon string `json:"icon,omitempty"`
}

// HasIcon reports whether the preset carries an icon override.
func (p Preset) HasIcon() bool {
	return p.Icon != ""
}
