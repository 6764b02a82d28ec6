package control

import (
	"github.com/go-kit/log/level"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// CurrentLoadout captures the current entry of every cycle.
func (c *Controller) CurrentLoadout() types.Loadout {
	c.mu.Lock()
	defer c.mu.Unlock()
	var l types.Loadout
	for _, s := range types.CycleSlots() {
		if e, ok := c.cycles.Peek(s); ok {
			l = l.With(s, e.ID)
		}
	}
	return l
}

// CreatePreset stores a new preset and returns its ID, or 0 when the preset
// store rejects it.
func (c *Controller) CreatePreset(name string, loadout types.Loadout) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.presets.Create(name, loadout)
	if id == 0 {
		level.Warn(c.logger).Log("msg", "preset rejected", "name", name, "presets", c.presets.Len())
		return 0
	}
	level.Debug(c.logger).Log("msg", "created preset", "id", id, "name", name)
	return id
}

// UpdatePreset replaces a preset's loadout.
func (c *Controller) UpdatePreset(id uint32, loadout types.Loadout) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.Update(id, loadout)
}

// RenamePreset renames a preset.
func (c *Controller) RenamePreset(id uint32, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.Rename(id, name)
}

// RemovePreset deletes a preset.
func (c *Controller) RemovePreset(id uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.Remove(id)
}

// PresetByName returns the ID of the first preset with the given name.
func (c *Controller) PresetByName(name string) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.ByName(name)
}

// PresetIDs returns preset IDs in creation order.
func (c *Controller) PresetIDs() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.IDs()
}

// PresetNames returns preset names in the order of PresetIDs.
func (c *Controller) PresetNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.Names()
}

// PresetIndexToID maps a position in PresetIDs to an ID.
func (c *Controller) PresetIndexToID(idx int) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.IndexToID(idx)
}

// Preset returns a preset by ID.
func (c *Controller) Preset(id uint32) (types.Preset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.Get(id)
}

// PresetItemNames returns the display names of the items in a preset, in
// slot order, skipping empty slots. Items the host no longer has are named
// types.MissingName.
func (c *Controller) PresetItemNames(id uint32) ([]string, bool) {
	set, ok := c.Preset(id)
	if !ok {
		return nil, false
	}
	var names []string
	for _, itemID := range set.Loadout {
		if itemID == "" {
			continue
		}
		if e, found := c.resolve(itemID); found {
			names = append(names, e.Name)
		} else {
			names = append(names, types.MissingName)
		}
	}
	return names, true
}

// SetPresetIcon overrides a preset's icon with the icon of the given item.
// The item must be known to the host. An empty identifier clears the
// override.
func (c *Controller) SetPresetIcon(id uint32, identifier string) bool {
	if identifier != "" {
		if _, found := c.resolve(identifier); !found {
			return false
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presets.SetIcon(id, identifier)
}

// PresetIconFile returns the icon file to draw for a preset: the override if
// it resolves, else the first resolvable item in the loadout.
func (c *Controller) PresetIconFile(id uint32) (string, bool) {
	set, ok := c.Preset(id)
	if !ok {
		return "", false
	}
	candidates := append([]string{set.Icon}, set.Loadout[:]...)
	for _, itemID := range candidates {
		if e, found := c.resolve(itemID); found {
			return e.IconFile(), true
		}
	}
	return types.KindIconDefault.IconFile(), true
}

// ApplyPreset returns the directives that put a preset's loadout on the
// player. Empty hands are unequipped; items the host no longer has are
// skipped. Cycles that hold an applied item make it current.
func (c *Controller) ApplyPreset(id uint32) (types.Response, bool) {
	set, ok := c.Preset(id)
	if !ok {
		return types.Unhandled(), false
	}

	resp := types.Handled()
	applied := make(map[types.Slot]string)
	for _, s := range types.CycleSlots() {
		itemID := set.Loadout.Get(s)
		hand := s == types.SlotLeft || s == types.SlotRight
		switch {
		case itemID == "" || itemID == types.UnarmedID:
			if hand {
				resp.Directives = append(resp.Directives, types.Directive{
					Kind:  types.DirectiveUnequip,
					Slot:  s,
					Entry: types.Unarmed(),
				})
			}
		default:
			e, found := c.resolve(itemID)
			if !found {
				level.Warn(c.logger).Log("msg", "preset item is missing", "preset", id, "slot", s, "id", itemID)
				continue
			}
			resp.Directives = append(resp.Directives, equip(s, e))
			applied[s] = itemID
		}
	}

	c.mu.Lock()
	for s, itemID := range applied {
		if c.cycles.SetCurrent(s, itemID) {
			c.timers[s] = types.TimerIdle
		}
	}
	c.mu.Unlock()
	return resp, true
}
