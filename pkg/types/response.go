package types

import "fmt"

// MenuResponse is the closed set of outcomes of a menu add/remove request.
// The host turns each into a specific message for the player.
type MenuResponse uint8

// Menu responses. The zero value is MenuUnhandled.
const (
	MenuUnhandled MenuResponse = iota
	MenuOkay
	MenuError
	MenuItemAdded
	MenuItemRemoved
	MenuItemInappropriate
	MenuTooManyItems
)

var menuResponseNames = [...]string{
	MenuUnhandled:         "unhandled",
	MenuOkay:              "okay",
	MenuError:             "error",
	MenuItemAdded:         "item_added",
	MenuItemRemoved:       "item_removed",
	MenuItemInappropriate: "item_inappropriate",
	MenuTooManyItems:      "too_many_items",
}

// String returns the snake_case name of the response.
func (m MenuResponse) String() string {
	if int(m) >= len(menuResponseNames) {
		return fmt.Sprintf("menu(%d)", uint8(m))
	}
	return menuResponseNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m MenuResponse) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DirectiveKind says what the host should do with an entry.
type DirectiveKind uint8

// Directive kinds.
const (
	DirectiveEquip DirectiveKind = iota
	DirectiveUse
	DirectiveUnequip
)

// String returns the name of the directive kind.
func (d DirectiveKind) String() string {
	switch d {
	case DirectiveEquip:
		return "equip"
	case DirectiveUse:
		return "use"
	case DirectiveUnequip:
		return "unequip"
	default:
		return fmt.Sprintf("directive(%d)", uint8(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DirectiveKind) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Directive asks the host to act on an entry in a slot.
type Directive struct {
	Kind  DirectiveKind `json:"kind"`
	Slot  Slot          `json:"slot"`
	Entry Entry         `json:"entry"`
}

// Response is what the controller hands back for every event.
// StartTimer and StopTimer are ActionIrrelevant when no timer change is needed.
type Response struct {
	Handled    bool         `json:"handled"`
	StartTimer Action       `json:"start_timer"`
	StopTimer  Action       `json:"stop_timer"`
	Menu       MenuResponse `json:"menu"`
	Directives []Directive  `json:"directives,omitempty"`
}

// Unhandled is the response for events the controller does not act on.
func Unhandled() Response {
	return Response{}
}

// Handled is a response with only the handled flag set.
func Handled() Response {
	return Response{Handled: true}
}
