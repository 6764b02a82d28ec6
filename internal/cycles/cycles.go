// Package cycles implements the four hotkey cycles: ordered, rotatable lists
// of entries, one per cycle slot, plus the HUD visibility flag.
//
// Cycles is not safe for concurrent use; the controller serializes access.
package cycles

import (
	"math"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// noCurrent marks an empty cycle.
const noCurrent = -1

// MaxEntries is the most entries one cycle can hold. Saves store the current
// index as an int16.
const MaxEntries = math.MaxInt16

// cycle is one slot's entries in activation order. Identifiers are unique.
type cycle struct {
	entries []types.Entry
	current int
}

func (c *cycle) indexOf(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Cycles holds the Power, Left, Right, and Utility cycles.
type Cycles struct {
	slots      [types.NumCycleSlots]cycle
	hudVisible bool
}

// New returns empty cycles with the HUD visible.
func New() *Cycles {
	c := &Cycles{hudVisible: true}
	for i := range c.slots {
		c.slots[i].current = noCurrent
	}
	return c
}

func (c *Cycles) slot(s types.Slot) *cycle {
	if !s.IsCycle() {
		return nil
	}
	return &c.slots[s]
}

// Advance moves the slot's current entry forward, wrapping at the end, and
// returns the new current entry. It returns false for an empty slot.
func (c *Cycles) Advance(s types.Slot) (types.Entry, bool) {
	cy := c.slot(s)
	if cy == nil || len(cy.entries) == 0 {
		return types.Entry{}, false
	}
	cy.current = (cy.current + 1) % len(cy.entries)
	return cy.entries[cy.current], true
}

// Peek returns the slot's current entry without changing it.
func (c *Cycles) Peek(s types.Slot) (types.Entry, bool) {
	cy := c.slot(s)
	if cy == nil || cy.current == noCurrent {
		return types.Entry{}, false
	}
	return cy.entries[cy.current], true
}

// Add appends the entry to the slot unless an entry with the same ID is
// already there, the entry fails Validate, or the slot holds MaxEntries. The
// first entry added to an empty slot becomes current.
func (c *Cycles) Add(s types.Slot, e types.Entry) bool {
	cy := c.slot(s)
	if cy == nil || e.Validate() != nil || len(cy.entries) >= MaxEntries || cy.indexOf(e.ID) >= 0 {
		return false
	}
	e.Extra = types.ExtraData{}
	cy.entries = append(cy.entries, e)
	if cy.current == noCurrent {
		cy.current = 0
	}
	return true
}

// Remove deletes the entry with the given ID from the slot. When the current
// entry is removed, the entry that followed it becomes current, so a later
// Advance does not skip anything.
func (c *Cycles) Remove(s types.Slot, id string) bool {
	cy := c.slot(s)
	if cy == nil {
		return false
	}
	idx := cy.indexOf(id)
	if idx < 0 {
		return false
	}
	cy.entries = append(cy.entries[:idx], cy.entries[idx+1:]...)
	switch {
	case len(cy.entries) == 0:
		cy.current = noCurrent
	case cy.current > idx:
		cy.current--
	case cy.current >= len(cy.entries):
		cy.current = 0
	}
	return true
}

// RemoveEverywhere deletes the identifier from every cycle and returns the
// slots it was removed from.
func (c *Cycles) RemoveEverywhere(id string) []types.Slot {
	var removed []types.Slot
	for _, s := range types.CycleSlots() {
		if c.Remove(s, id) {
			removed = append(removed, s)
		}
	}
	return removed
}

// Contains reports whether the slot holds the identifier.
func (c *Cycles) Contains(s types.Slot, id string) bool {
	cy := c.slot(s)
	return cy != nil && cy.indexOf(id) >= 0
}

// SetCurrent makes the entry with the given ID current. It returns false if
// the slot does not hold it.
func (c *Cycles) SetCurrent(s types.Slot, id string) bool {
	cy := c.slot(s)
	if cy == nil {
		return false
	}
	idx := cy.indexOf(id)
	if idx < 0 {
		return false
	}
	cy.current = idx
	return true
}

// Current returns the index of the current entry, or -1 for an empty slot.
func (c *Cycles) Current(s types.Slot) int {
	cy := c.slot(s)
	if cy == nil {
		return noCurrent
	}
	return cy.current
}

// Update replaces the stored copy of an entry, matched by ID, in every slot
// holding it. Position and current index are unchanged. Entries that fail
// Validate are ignored.
func (c *Cycles) Update(e types.Entry) {
	if e.Validate() != nil {
		return
	}
	e.Extra = types.ExtraData{}
	for i := range c.slots {
		if idx := c.slots[i].indexOf(e.ID); idx >= 0 {
			c.slots[i].entries[idx] = e
		}
	}
}

// Len returns the number of entries in the slot.
func (c *Cycles) Len(s types.Slot) int {
	cy := c.slot(s)
	if cy == nil {
		return 0
	}
	return len(cy.entries)
}

// Entries returns a copy of the slot's entries in activation order.
func (c *Cycles) Entries(s types.Slot) []types.Entry {
	cy := c.slot(s)
	if cy == nil {
		return nil
	}
	out := make([]types.Entry, len(cy.entries))
	copy(out, cy.entries)
	return out
}

// Names returns the display names in the slot, in activation order.
func (c *Cycles) Names(s types.Slot) []string {
	entries := c.Entries(s)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// IDs returns the identifiers in the slot, in activation order.
func (c *Cycles) IDs(s types.Slot) []string {
	entries := c.Entries(s)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// HUDVisible reports whether the HUD is shown.
func (c *Cycles) HUDVisible() bool {
	return c.hudVisible
}

// SetHUDVisible sets the HUD visibility flag.
func (c *Cycles) SetHUDVisible(v bool) {
	c.hudVisible = v
}

// ToggleHUDVisible flips the HUD visibility flag and returns the new value.
// Slot contents are untouched.
func (c *Cycles) ToggleHUDVisible() bool {
	c.hudVisible = !c.hudVisible
	return c.hudVisible
}

// Clear empties every slot. The HUD flag is kept.
func (c *Cycles) Clear() {
	for i := range c.slots {
		c.slots[i] = cycle{current: noCurrent}
	}
}

// Restore replaces a slot's entries and current index wholesale. It is used
// by the codec when rebuilding decoded cycles and returns false when the
// entries are invalid, not unique, too many, or the index is out of range.
func (c *Cycles) Restore(s types.Slot, entries []types.Entry, current int) bool {
	cy := c.slot(s)
	if cy == nil || len(entries) > MaxEntries {
		return false
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Validate() != nil || seen[e.ID] {
			return false
		}
		seen[e.ID] = true
	}
	switch {
	case len(entries) == 0 && current != noCurrent:
		return false
	case len(entries) > 0 && (current < 0 || current >= len(entries)):
		return false
	}
	cy.entries = append([]types.Entry(nil), entries...)
	cy.current = current
	return true
}

// Clone returns a deep copy.
func (c *Cycles) Clone() *Cycles {
	out := &Cycles{hudVisible: c.hudVisible}
	for i := range c.slots {
		out.slots[i] = cycle{
			entries: append([]types.Entry(nil), c.slots[i].entries...),
			current: c.slots[i].current,
		}
	}
	return out
}
