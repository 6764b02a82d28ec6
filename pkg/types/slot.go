package types

import "fmt"

// Slot is a hotkey-bound position. The first four slots are cycles; Activate
// is a single-shot slot that uses whatever the Utility cycle shows.
//
// The numeric values are written to save payloads.
type Slot uint8

// Slots.
const (
	SlotPower Slot = iota
	SlotLeft
	SlotRight
	SlotUtility
	SlotActivate
)

// NumCycleSlots is the number of slots that own a cycle.
const NumCycleSlots = 4

var slotNames = [...]string{
	SlotPower:    "power",
	SlotLeft:     "left",
	SlotRight:    "right",
	SlotUtility:  "utility",
	SlotActivate: "activate",
}

// CycleSlots returns the cycle slots in storage order.
func CycleSlots() []Slot {
	return []Slot{SlotPower, SlotLeft, SlotRight, SlotUtility}
}

// IsCycle reports whether s owns a cycle.
func (s Slot) IsCycle() bool {
	return s < NumCycleSlots
}

// Valid reports whether s is a defined slot.
func (s Slot) Valid() bool {
	return int(s) < len(slotNames)
}

// String returns the lowercase name of the slot.
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", uint8(s))
	}
	return slotNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidSlot
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSlot returns the slot with the given name.
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
}

// Accepts reports whether the entry may be placed in this slot's cycle.
// altGrip swaps the effective one/two-handedness of melee weapons.
func (s Slot) Accepts(e Entry, altGrip bool) bool {
	cat := e.Kind.Category()
	switch s {
	case SlotPower:
		return cat == CategoryPower
	case SlotUtility:
		switch cat {
		case CategoryConsumable, CategoryArmor, CategoryScroll, CategoryMisc:
			return true
		}
		return false
	case SlotRight:
		switch cat {
		case CategoryWeapon, CategoryRanged, CategoryMagic, CategoryScroll:
			return true
		}
		return false
	case SlotLeft:
		switch cat {
		case CategoryOffhand, CategoryScroll:
			return true
		case CategoryWeapon, CategoryMagic:
			return !EffectivelyTwoHanded(e, altGrip)
		}
		return false
	default:
		return false
	}
}

// EffectivelyTwoHanded reports whether the entry needs both hands given the
// current grip mode. Alternate grip only affects melee weapons.
func EffectivelyTwoHanded(e Entry, altGrip bool) bool {
	if altGrip && e.Kind.Category() == CategoryWeapon {
		return !e.TwoHanded
	}
	return e.TwoHanded
}

// PreferredSlots returns the cycles an entry is filed into when it is
// favorited, in the order they are tried.
func PreferredSlots(e Entry, altGrip bool) []Slot {
	var out []Slot
	for _, s := range []Slot{SlotPower, SlotRight, SlotLeft, SlotUtility} {
		if !s.Accepts(e, altGrip) {
			continue
		}
		// Scrolls are filed with consumables; they stay assignable to the
		// hands through the menu.
		if e.Kind.Category() == CategoryScroll && s != SlotUtility {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Action is what a hotkey does.
type Action uint8

// Actions.
const (
	// ActionIrrelevant means the key is not one of ours.
	ActionIrrelevant Action = iota
	ActionPower
	ActionLeft
	ActionRight
	ActionUtility
	ActionActivate
	ActionShowHide
)

var actionNames = [...]string{
	ActionIrrelevant: "irrelevant",
	ActionPower:      "power",
	ActionLeft:       "left",
	ActionRight:      "right",
	ActionUtility:    "utility",
	ActionActivate:   "activate",
	ActionShowHide:   "show_hide",
}

// String returns the snake_case name of the action.
func (a Action) String() string {
	if int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Slot returns the slot an action drives. ShowHide and Irrelevant have none.
func (a Action) Slot() (Slot, bool) {
	switch a {
	case ActionPower:
		return SlotPower, true
	case ActionLeft:
		return SlotLeft, true
	case ActionRight:
		return SlotRight, true
	case ActionUtility:
		return SlotUtility, true
	case ActionActivate:
		return SlotActivate, true
	default:
		return 0, false
	}
}

// ActionFor returns the action that drives the given slot.
func ActionFor(s Slot) Action {
	switch s {
	case SlotPower:
		return ActionPower
	case SlotLeft:
		return ActionLeft
	case SlotRight:
		return ActionRight
	case SlotUtility:
		return ActionUtility
	case SlotActivate:
		return ActionActivate
	default:
		return ActionIrrelevant
	}
}

// TimerState is the delayed-equip status of one cycle slot.
type TimerState uint8

// Timer states.
const (
	TimerIdle TimerState = iota
	TimerPending
	TimerExpiredRetry
)

// String returns the name of the timer state.
func (t TimerState) String() string {
	switch t {
	case TimerIdle:
		return "idle"
	case TimerPending:
		return "pending"
	case TimerExpiredRetry:
		return "expired_pending_retry"
	default:
		return fmt.Sprintf("timer(%d)", uint8(t))
	}
}
