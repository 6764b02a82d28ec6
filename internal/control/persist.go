package control

import (
	"github.com/go-kit/log/level"

	"github.com/mesh-intelligence/cyclehud/internal/codec"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// Save encodes the cycles and presets for the host's save file.
func (c *Controller) Save() ([]byte, uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return codec.Encode(c.cycles, c.presets), codec.Version()
}

// Load replaces the cycles and presets with a decoded save payload. Settings
// are refreshed first. A payload that does not decode leaves the controller
// untouched and returns false.
func (c *Controller) Load(data []byte, version uint32) bool {
	c.refreshSettings()

	cy, ps, err := codec.Decode(data, version)
	if err != nil {
		c.metrics.decodeFailure()
		level.Warn(c.logger).Log("msg", "save payload rejected, keeping current state", "version", version, "bytes", len(data), "err", err)
		return false
	}

	c.mu.Lock()
	c.cycles = cy
	c.presets = ps
	c.timers = [types.NumCycleSlots]types.TimerState{}
	c.mu.Unlock()

	c.cache.Clear()
	level.Info(c.logger).Log("msg", "loaded save payload", "version", version, "presets", ps.Len())
	return true
}

// SlotSnapshot is the state of one cycle.
type SlotSnapshot struct {
	Slot    types.Slot       `json:"slot"`
	Entries []types.Entry    `json:"entries"`
	Current int              `json:"current"`
	Timer   types.TimerState `json:"-"`
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	HUDVisible   bool           `json:"hud_visible"`
	AltGrip      bool           `json:"alt_grip"`
	Slots        []SlotSnapshot `json:"slots"`
	Presets      []types.Preset `json:"presets"`
	NextPresetID uint32         `json:"next_preset_id"`
	Settings     types.Settings `json:"-"`
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		HUDVisible:   c.cycles.HUDVisible(),
		AltGrip:      c.altGrip,
		Presets:      c.presets.All(),
		NextPresetID: c.presets.NextID(),
		Settings:     c.settings,
	}
	for _, s := range types.CycleSlots() {
		snap.Slots = append(snap.Slots, SlotSnapshot{
			Slot:    s,
			Entries: c.cycles.Entries(s),
			Current: c.cycles.Current(s),
			Timer:   c.timers[s],
		})
	}
	return snap
}
