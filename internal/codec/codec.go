// Package codec serializes cycles and presets into the versioned binary blob
// the host keeps in its save files.
//
// Layout (all integers little-endian, strings are a u16 length followed by
// UTF-8 bytes):
//
//	u32 version
//	u8  flags            bit 0: HUD visible
//	u8  slot count       always 4
//	per slot:
//	  u8  slot tag
//	  u16 entry count
//	  i16 current index  -1 when empty
//	  per entry: str id, u8 kind, u8 flags, u32 count, str name
//	v2+:
//	  u32 next preset ID
//	  u16 preset count
//	  per preset: u32 id, str name, [v3: u8 has icon, str icon], 4x str loadout
//	u64 xxhash64 of everything above
package codec

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/cyclehud/internal/cycles"
	"github.com/mesh-intelligence/cyclehud/internal/presets"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// Format versions.
const (
	// VersionCycles carries cycles only.
	VersionCycles uint32 = 1
	// VersionPresets adds the equipment-set store.
	VersionPresets uint32 = 2
	// VersionPresetIcons adds per-preset icon overrides.
	VersionPresetIcons uint32 = 3

	// CurrentVersion is the version Encode writes.
	CurrentVersion = VersionPresetIcons
)

// Decode errors. Every failure wraps one of these.
var (
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrVersionMismatch    = errors.New("payload version does not match tag")
	ErrChecksum           = errors.New("checksum mismatch")
	ErrMalformed          = errors.New("malformed payload")
)

const (
	flagHUDVisible = 1 << 0

	entryTwoHanded = 1 << 0
	entryHasCount  = 1 << 1

	checksumSize = 8

	// minimum encoded sizes, used to reject counts the remaining bytes cannot hold
	minEntrySize  = 2 + 1 + 1 + 4 + 2
	minPresetSize = 4 + 2 + 4*2
)

// Version returns the format version Encode writes.
func Version() uint32 {
	return CurrentVersion
}

// Encode serializes the stores in the current format. It never fails, and
// every value the stores accept decodes back unchanged, except that invalid
// UTF-8 in display names is replaced.
func Encode(c *cycles.Cycles, p *presets.Presets) []byte {
	data, _ := EncodeVersion(c, p, CurrentVersion)
	return data
}

// EncodeVersion serializes the stores in an older format. Data the older
// format cannot hold is dropped.
func EncodeVersion(c *cycles.Cycles, p *presets.Presets, version uint32) ([]byte, error) {
	if version == 0 || version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if c == nil {
		c = cycles.New()
	}
	if p == nil {
		p = presets.New()
	}

	w := newWriter()
	w.u32(version)
	var flags uint8
	if c.HUDVisible() {
		flags |= flagHUDVisible
	}
	w.u8(flags)
	w.u8(types.NumCycleSlots)
	for _, s := range types.CycleSlots() {
		entries := c.Entries(s)
		w.u8(uint8(s))
		w.u16(uint16(len(entries)))
		w.i16(int16(c.Current(s)))
		for _, e := range entries {
			writeEntry(w, e)
		}
	}

	if version >= VersionPresets {
		sets := p.All()
		w.u32(p.NextID())
		w.u16(uint16(len(sets)))
		for _, set := range sets {
			w.u32(set.ID)
			w.str(set.Name)
			if version >= VersionPresetIcons {
				w.bool(set.HasIcon())
				if set.HasIcon() {
					w.str(set.Icon)
				}
			}
			for _, id := range set.Loadout {
				w.str(id)
			}
		}
	}

	w.checksum()
	return w.bytes(), nil
}

func writeEntry(w *writer, e types.Entry) {
	var flags uint8
	if e.TwoHanded {
		flags |= entryTwoHanded
	}
	if e.HasCount {
		flags |= entryHasCount
	}
	w.str(e.ID)
	w.u8(uint8(e.Kind))
	w.u8(flags)
	w.u32(e.Count)
	w.str(e.Name)
}

// Decode rebuilds the stores from a payload tagged with the given version.
// Versions older than current decode with defaults for the missing parts.
// On any error neither store is returned.
func Decode(data []byte, version uint32) (*cycles.Cycles, *presets.Presets, error) {
	if version > CurrentVersion {
		return nil, nil, fmt.Errorf("%w: %d is newer than %d", ErrUnsupportedVersion, version, CurrentVersion)
	}
	if version == 0 {
		return nil, nil, fmt.Errorf("%w: 0", ErrUnsupportedVersion)
	}
	body, err := verifyChecksum(data)
	if err != nil {
		return nil, nil, err
	}

	r := newReader(body)
	payloadVersion := r.u32()
	if r.err == nil && payloadVersion != version {
		return nil, nil, fmt.Errorf("%w: payload says %d, tag says %d", ErrVersionMismatch, payloadVersion, version)
	}

	c, err := decodeCycles(r)
	if err != nil {
		return nil, nil, err
	}
	p := presets.New()
	if version >= VersionPresets {
		if p, err = decodePresets(r, version); err != nil {
			return nil, nil, err
		}
	}
	if r.err != nil {
		return nil, nil, r.err
	}
	if r.remaining() != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining())
	}
	return c, p, nil
}

func decodeCycles(r *reader) (*cycles.Cycles, error) {
	flags := r.u8()
	slotCount := r.u8()
	if r.err != nil {
		return nil, r.err
	}
	if slotCount != types.NumCycleSlots {
		return nil, fmt.Errorf("%w: %d slots", ErrMalformed, slotCount)
	}

	c := cycles.New()
	c.SetHUDVisible(flags&flagHUDVisible != 0)
	var seen [types.NumCycleSlots]bool
	for i := 0; i < types.NumCycleSlots; i++ {
		slot := types.Slot(r.u8())
		count := int(r.u16())
		current := int(r.i16())
		if r.err != nil {
			return nil, r.err
		}
		if !slot.IsCycle() {
			return nil, fmt.Errorf("%w: unknown slot tag %d", ErrMalformed, uint8(slot))
		}
		if seen[slot] {
			return nil, fmt.Errorf("%w: slot %s repeated", ErrMalformed, slot)
		}
		seen[slot] = true
		if count*minEntrySize > r.remaining() {
			return nil, fmt.Errorf("%w: %d entries do not fit in %d bytes", ErrMalformed, count, r.remaining())
		}

		entries := make([]types.Entry, 0, count)
		for j := 0; j < count; j++ {
			e, err := readEntry(r)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		if !c.Restore(slot, entries, current) {
			return nil, fmt.Errorf("%w: slot %s has duplicate entries or bad index %d", ErrMalformed, slot, current)
		}
	}
	return c, nil
}

func readEntry(r *reader) (types.Entry, error) {
	id := r.str()
	kind := types.EntryKind(r.u8())
	flags := r.u8()
	count := r.u32()
	name := r.str()
	if r.err != nil {
		return types.Entry{}, r.err
	}
	if !kind.Valid() {
		return types.Entry{}, fmt.Errorf("%w: unknown kind tag %d", ErrMalformed, uint8(kind))
	}
	return types.Entry{
		Kind:      kind,
		ID:        id,
		Name:      name,
		Count:     count,
		HasCount:  flags&entryHasCount != 0,
		TwoHanded: flags&entryTwoHanded != 0,
	}, nil
}

func decodePresets(r *reader, version uint32) (*presets.Presets, error) {
	nextID := r.u32()
	count := int(r.u16())
	if r.err != nil {
		return nil, r.err
	}
	if count*minPresetSize > r.remaining() {
		return nil, fmt.Errorf("%w: %d presets do not fit in %d bytes", ErrMalformed, count, r.remaining())
	}

	sets := make([]types.Preset, 0, count)
	for i := 0; i < count; i++ {
		set := types.Preset{ID: r.u32(), Name: r.str()}
		if version >= VersionPresetIcons && r.bool() {
			set.Icon = r.str()
		}
		for j := range set.Loadout {
			set.Loadout[j] = r.str()
		}
		if r.err != nil {
			return nil, r.err
		}
		sets = append(sets, set)
	}

	p, ok := presets.Restore(nextID, sets)
	if !ok {
		return nil, fmt.Errorf("%w: preset IDs are duplicated or not below next ID %d", ErrMalformed, nextID)
	}
	return p, nil
}
