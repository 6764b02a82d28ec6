package control

import "github.com/mesh-intelligence/cyclehud/pkg/types"

// SettingsProvider supplies user settings. Refresh re-reads them from their
// source; Settings returns the values from the last successful read.
type SettingsProvider interface {
	Refresh() error
	Settings() types.Settings
}

// LayoutProvider supplies the HUD geometry. The controller never reads the
// layout; it only asks for a refresh.
type LayoutProvider interface {
	Refresh() error
}

// Inventory answers questions about the player's items. Lookup returns false
// when the item is gone.
type Inventory interface {
	Lookup(id string) (types.Entry, bool)
	Extra(id string) types.ExtraData
}

// StaticSettings is a SettingsProvider that never changes.
type StaticSettings types.Settings

// Refresh implements SettingsProvider.
func (StaticSettings) Refresh() error { return nil }

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() types.Settings { return types.Settings(s) }

type noLayout struct{}

func (noLayout) Refresh() error { return nil }

type noInventory struct{}

func (noInventory) Lookup(string) (types.Entry, bool) { return types.Entry{}, false }
func (noInventory) Extra(string) types.ExtraData      { return types.ExtraData{} }
