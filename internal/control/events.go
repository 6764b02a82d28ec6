package control

import "github.com/mesh-intelligence/cyclehud/pkg/types"

// Event is one notification from the host. The set of events is closed.
type Event interface {
	eventName() string
}

// KeyEvent is a hotkey press or release. Key is the host key code.
type KeyEvent struct {
	Key  uint32 `yaml:"key"`
	Down bool   `yaml:"down"`
}

// MenuEvent asks to add the entry to, or remove it from, the cycle bound to
// Key. The entry arrives fully populated from the host's menu.
type MenuEvent struct {
	Key   uint32      `yaml:"key"`
	Entry types.Entry `yaml:"entry"`
}

// InventoryChanged reports a new stack count for an identifier.
type InventoryChanged struct {
	ID    string `yaml:"id"`
	Count uint32 `yaml:"count"`
}

// ItemEquipped reports that the host equipped or unequipped an item. Right
// and Left say which hands it went into; neither means the power slot.
type ItemEquipped struct {
	Equipped bool   `yaml:"equipped"`
	ID       string `yaml:"id"`
	Right    bool   `yaml:"right"`
	Left     bool   `yaml:"left"`
}

// FavoriteToggled reports that the player favorited or unfavorited an item.
type FavoriteToggled struct {
	Entry    types.Entry `yaml:"entry"`
	Favorite bool        `yaml:"favorite"`
}

// GripChanged reports the alternate grip mode.
type GripChanged struct {
	AltGrip bool `yaml:"alt_grip"`
}

// TimerExpired reports that the delayed-equip timer for a slot ran out.
type TimerExpired struct {
	Slot types.Slot `yaml:"slot"`
}

// SettingsRefresh asks the controller to re-read user settings.
type SettingsRefresh struct{}

// LayoutRefresh asks the controller to re-read the HUD layout.
type LayoutRefresh struct{}

func (KeyEvent) eventName() string         { return "key" }
func (MenuEvent) eventName() string        { return "menu" }
func (InventoryChanged) eventName() string { return "inventory_changed" }
func (ItemEquipped) eventName() string     { return "item_equipped" }
func (FavoriteToggled) eventName() string  { return "favorite_toggled" }
func (GripChanged) eventName() string      { return "grip_changed" }
func (TimerExpired) eventName() string     { return "timer_expired" }
func (SettingsRefresh) eventName() string  { return "settings_refresh" }
func (LayoutRefresh) eventName() string    { return "layout_refresh" }

// EventName returns the snake_case name of an event, or "unknown".
func EventName(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return ev.eventName()
}
