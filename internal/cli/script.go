package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cyclehud/internal/control"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// script is a recorded host session: the items the player starts with and
// the events the host sends, in order.
//
//	inventory:
//	  - {kind: sword, id: "0x0001", name: Iron Sword}
//	events:
//	  - {type: key, key: 5, down: true}
//	  - {type: timer_expired, slot: left}
type script struct {
	Inventory []types.Entry `yaml:"inventory"`
	Events    []scriptEvent `yaml:"events"`
}

// scriptEvent decodes one event by its type field.
type scriptEvent struct {
	control.Event
}

func decodeAs[T control.Event](node *yaml.Node) (control.Event, error) {
	var ev T
	if err := node.Decode(&ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// eventDecoders is keyed by control.EventName.
var eventDecoders = map[string]func(*yaml.Node) (control.Event, error){
	"key":               decodeAs[control.KeyEvent],
	"menu":              decodeAs[control.MenuEvent],
	"inventory_changed": decodeAs[control.InventoryChanged],
	"item_equipped":     decodeAs[control.ItemEquipped],
	"favorite_toggled":  decodeAs[control.FavoriteToggled],
	"grip_changed":      decodeAs[control.GripChanged],
	"timer_expired":     decodeAs[control.TimerExpired],
	"settings_refresh":  decodeAs[control.SettingsRefresh],
	"layout_refresh":    decodeAs[control.LayoutRefresh],
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *scriptEvent) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	decode, ok := eventDecoders[head.Type]
	if !ok {
		return fmt.Errorf("line %d: %w: unknown type %q", node.Line, types.ErrInvalidEvent, head.Type)
	}
	ev, err := decode(node)
	if err != nil {
		return fmt.Errorf("line %d: %s event: %w", node.Line, head.Type, err)
	}
	s.Event = ev
	return nil
}

// parseScript reads and checks a script.
func parseScript(r io.Reader) (script, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && err != io.EOF {
		return script{}, err
	}
	for i, e := range sc.Inventory {
		if err := e.Validate(); err != nil {
			return script{}, fmt.Errorf("inventory item %d: %w", i, err)
		}
	}
	return sc, nil
}
