package types

import (
	"errors"
	"fmt"
)

// Settings are the user-configurable controller parameters. Hotkeys are host
// key codes; zero leaves an action unbound.
type Settings struct {
	PowerKey    uint32 `mapstructure:"power_key" yaml:"power_key"`
	LeftKey     uint32 `mapstructure:"left_key" yaml:"left_key"`
	RightKey    uint32 `mapstructure:"right_key" yaml:"right_key"`
	UtilityKey  uint32 `mapstructure:"utility_key" yaml:"utility_key"`
	ActivateKey uint32 `mapstructure:"activate_key" yaml:"activate_key"`
	ShowHideKey uint32 `mapstructure:"showhide_key" yaml:"showhide_key"`

	// Autofade hides the HUD automatically instead of toggling it by key.
	Autofade bool `mapstructure:"autofade" yaml:"autofade"`

	// EquipDelayMS is how long the host timer runs before an equip happens.
	EquipDelayMS uint32 `mapstructure:"equip_delay_ms" yaml:"equip_delay_ms"`

	// MaxCycleLength caps the number of entries in one cycle.
	MaxCycleLength int `mapstructure:"max_cycle_length" yaml:"max_cycle_length"`

	// LinkToFavorites files favorited items into cycles automatically.
	LinkToFavorites bool `mapstructure:"link_to_favorites" yaml:"link_to_favorites"`

	// CacheSize bounds the entry metadata cache.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// Settings defaults.
const (
	DefaultEquipDelayMS   = 750
	DefaultMaxCycleLength = 15
	DefaultCacheSize      = 256
)

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		PowerKey:        3,
		LeftKey:         5,
		RightKey:        7,
		UtilityKey:      6,
		ActivateKey:     4,
		ShowHideKey:     8,
		EquipDelayMS:    DefaultEquipDelayMS,
		MaxCycleLength:  DefaultMaxCycleLength,
		LinkToFavorites: true,
		CacheSize:       DefaultCacheSize,
	}
}

// Settings validation errors.
var (
	ErrDuplicateHotkey   = errors.New("hotkey bound to more than one action")
	ErrCycleLengthTooLow = errors.New("max cycle length must be at least 2")
	ErrCacheSizeInvalid  = errors.New("cache size must be positive")
)

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	seen := make(map[uint32]Action)
	for _, b := range s.bindings() {
		if b.key == 0 {
			continue
		}
		if prev, ok := seen[b.key]; ok {
			return fmt.Errorf("%w: key %d bound to %s and %s", ErrDuplicateHotkey, b.key, prev, b.action)
		}
		seen[b.key] = b.action
	}
	if s.MaxCycleLength < 2 {
		return fmt.Errorf("%w: got %d", ErrCycleLengthTooLow, s.MaxCycleLength)
	}
	if s.CacheSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrCacheSizeInvalid, s.CacheSize)
	}
	return nil
}

type binding struct {
	action Action
	key    uint32
}

// bindings lists the hotkeys in Action order.
func (s Settings) bindings() []binding {
	return []binding{
		{ActionPower, s.PowerKey},
		{ActionLeft, s.LeftKey},
		{ActionRight, s.RightKey},
		{ActionUtility, s.UtilityKey},
		{ActionActivate, s.ActivateKey},
		{ActionShowHide, s.ShowHideKey},
	}
}

// ActionFor maps a key code to the action it is bound to.
func (s Settings) ActionFor(key uint32) Action {
	if key == 0 {
		return ActionIrrelevant
	}
	switch key {
	case s.PowerKey:
		return ActionPower
	case s.LeftKey:
		return ActionLeft
	case s.RightKey:
		return ActionRight
	case s.UtilityKey:
		return ActionUtility
	case s.ActivateKey:
		return ActionActivate
	case s.ShowHideKey:
		return ActionShowHide
	default:
		return ActionIrrelevant
	}
}

// IsCycleButton reports whether the key drives one of the four cycles.
func (s Settings) IsCycleButton(key uint32) bool {
	slot, ok := s.ActionFor(key).Slot()
	return ok && slot.IsCycle()
}

// KeyFor returns the key bound to the action, or 0 when unbound.
func (s Settings) KeyFor(a Action) uint32 {
	for _, b := range s.bindings() {
		if b.action == a {
			return b.key
		}
	}
	return 0
}
