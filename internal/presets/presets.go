// Package presets implements the equipment-set store: named loadout snapshots
// indexed by ID.
//
// IDs are assigned from 1 upward and never reused while the store lives.
// Names are not unique; lookups by name return the first match in creation
// order. Every mutating operation either applies fully or not at all, and
// rejects names longer than types.MaxTextLen and loadout or icon identifiers
// that are not types.ValidID, so everything stored can be saved unchanged.
//
// Presets is not safe for concurrent use; the controller serializes access.
package presets

import (
	"math"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// MaxPresets is the most presets a store can hold. Saves store the count as
// a u16.
const MaxPresets = math.MaxUint16

// Presets stores equipment sets in creation order.
type Presets struct {
	nextID uint32
	sets   []types.Preset
}

// New returns an empty store whose first preset gets ID 1.
func New() *Presets {
	return &Presets{nextID: 1}
}

func (p *Presets) indexOf(id uint32) int {
	for i, s := range p.sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Create stores a new preset and returns its ID. It returns 0 and stores
// nothing when the store is full or the name or loadout is invalid.
func (p *Presets) Create(name string, loadout types.Loadout) uint32 {
	if len(p.sets) >= MaxPresets || p.nextID == math.MaxUint32 || len(name) > types.MaxTextLen || !loadout.Valid() {
		return 0
	}
	id := p.nextID
	p.nextID++
	p.sets = append(p.sets, types.Preset{ID: id, Name: name, Loadout: loadout})
	return id
}

// Update replaces the captured loadout of an existing preset. The name and
// icon override are kept.
func (p *Presets) Update(id uint32, loadout types.Loadout) bool {
	i := p.indexOf(id)
	if i < 0 || !loadout.Valid() {
		return false
	}
	p.sets[i].Loadout = loadout
	return true
}

// Rename changes the name of an existing preset.
func (p *Presets) Rename(id uint32, name string) bool {
	i := p.indexOf(id)
	if i < 0 || len(name) > types.MaxTextLen {
		return false
	}
	p.sets[i].Name = name
	return true
}

// Remove deletes a preset. Its ID is not handed out again.
func (p *Presets) Remove(id uint32) bool {
	i := p.indexOf(id)
	if i < 0 {
		return false
	}
	p.sets = append(p.sets[:i], p.sets[i+1:]...)
	return true
}

// SetIcon sets the icon override of a preset to the given entry identifier.
// An empty identifier clears the override.
func (p *Presets) SetIcon(id uint32, identifier string) bool {
	i := p.indexOf(id)
	if i < 0 || (identifier != "" && !types.ValidID(identifier)) {
		return false
	}
	p.sets[i].Icon = identifier
	return true
}

// ByName returns the ID of the first preset, in creation order, with the
// given name.
func (p *Presets) ByName(name string) (uint32, bool) {
	for _, s := range p.sets {
		if s.Name == name {
			return s.ID, true
		}
	}
	return 0, false
}

// Get returns the preset with the given ID.
func (p *Presets) Get(id uint32) (types.Preset, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return types.Preset{}, false
	}
	return p.sets[i], true
}

// IndexToID returns the ID at the given position of IDs().
func (p *Presets) IndexToID(idx int) (uint32, bool) {
	if idx < 0 || idx >= len(p.sets) {
		return 0, false
	}
	return p.sets[idx].ID, true
}

// IDs returns preset IDs in creation order.
func (p *Presets) IDs() []uint32 {
	out := make([]uint32, len(p.sets))
	for i, s := range p.sets {
		out[i] = s.ID
	}
	return out
}

// Names returns preset names in the same order as IDs.
func (p *Presets) Names() []string {
	out := make([]string, len(p.sets))
	for i, s := range p.sets {
		out[i] = s.Name
	}
	return out
}

// All returns a copy of every preset in creation order.
func (p *Presets) All() []types.Preset {
	return append([]types.Preset(nil), p.sets...)
}

// Len returns the number of presets.
func (p *Presets) Len() int {
	return len(p.sets)
}

// NextID returns the ID the next Create will assign.
func (p *Presets) NextID() uint32 {
	return p.nextID
}

// Restore rebuilds a store from decoded presets. It returns false when IDs
// repeat, are zero, or are not below nextID, and when a preset would be
// rejected by Create or SetIcon.
func Restore(nextID uint32, sets []types.Preset) (*Presets, bool) {
	if nextID == 0 || len(sets) > MaxPresets {
		return nil, false
	}
	seen := make(map[uint32]bool, len(sets))
	for _, s := range sets {
		if s.ID == 0 || s.ID >= nextID || seen[s.ID] {
			return nil, false
		}
		if len(s.Name) > types.MaxTextLen || !s.Loadout.Valid() || (s.Icon != "" && !types.ValidID(s.Icon)) {
			return nil, false
		}
		seen[s.ID] = true
	}
	return &Presets{nextID: nextID, sets: append([]types.Preset(nil), sets...)}, true
}

// Clone returns a deep copy.
func (p *Presets) Clone() *Presets {
	return &Presets{nextID: p.nextID, sets: append([]types.Preset(nil), p.sets...)}
}
