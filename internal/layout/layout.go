// Package layout reads the HUD geometry from layout.yaml. The controller never
// looks inside a layout; it only asks for a refresh. The renderer reads it.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

// Element names a HUD element. The four cycle slots plus ammo.
type Element string

// HUD elements.
const (
	ElementPower   Element = "power"
	ElementUtility Element = "utility"
	ElementLeft    Element = "left"
	ElementRight   Element = "right"
	ElementAmmo    Element = "ammo"
)

// Point is a position or a size in screen pixels.
type Point struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// OffsetBy returns p moved by offset.
func (p Point) OffsetBy(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Color is an RGBA color.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// White is the default for every color.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// Slot is the geometry of one HUD element, relative to the HUD anchor.
type Slot struct {
	Element       Element `yaml:"element"`
	Name          string  `yaml:"name"`
	Offset        Point   `yaml:"offset"`
	Size          Point   `yaml:"size"`
	BGColor       Color   `yaml:"bg_color"`
	IconColor     Color   `yaml:"icon_color"`
	IconSize      Point   `yaml:"icon_size"`
	HotkeyColor   Color   `yaml:"hotkey_color"`
	HotkeyOffset  Point   `yaml:"hotkey_offset"`
	HotkeySize    Point   `yaml:"hotkey_size"`
	HotkeyBGColor Color   `yaml:"hotkey_bg_color"`
	TextOffset    Point   `yaml:"text_offset"`
	CountFontSize float32 `yaml:"count_font_size"`
	CountColor    Color   `yaml:"count_color"`
	NameColor     Color   `yaml:"name_color"`
	NameOffset    Point   `yaml:"name_offset"`
	NameFontSize  float32 `yaml:"name_font_size"`
}

// DefaultSlot returns the geometry used for fields a layout file leaves out.
func DefaultSlot() Slot {
	return Slot{
		Name:          "unknown",
		Size:          Point{150, 150},
		BGColor:       White,
		IconColor:     Color{255, 255, 255, 125},
		IconSize:      Point{150, 150},
		HotkeyColor:   White,
		HotkeyOffset:  Point{20, 0},
		HotkeySize:    Point{30, 30},
		HotkeyBGColor: White,
		CountFontSize: 20,
		CountColor:    White,
		NameColor:     White,
		NameFontSize:  20,
	}
}

// UnmarshalYAML fills fields missing from the file with DefaultSlot values.
func (s *Slot) UnmarshalYAML(node *yaml.Node) error {
	type plain Slot
	out := plain(DefaultSlot())
	if err := node.Decode(&out); err != nil {
		return err
	}
	*s = Slot(out)
	return nil
}

// Layout is the whole HUD.
type Layout struct {
	Anchor            Point   `yaml:"anchor"`
	Size              Point   `yaml:"size"`
	BGColor           Color   `yaml:"bg_color"`
	Slots             []Slot  `yaml:"layouts"`
	Debug             bool    `yaml:"debug"`
	AnimationAlpha    uint8   `yaml:"animation_alpha"`
	AnimationDuration float32 `yaml:"animation_duration"`
}

func builtinSlot(e Element, name string, offset, size Point, icon Color) Slot {
	s := DefaultSlot()
	s.Element = e
	s.Name = name
	s.Offset = offset
	s.Size = size
	s.IconSize = size
	s.IconColor = icon
	s.HotkeyOffset = Point{10, 0}
	s.NameOffset = Point{0, 20}
	s.NameFontSize = 30
	return s
}

// Default returns the layout written on first run.
func Default() Layout {
	big := Point{125, 125}
	return Layout{
		Anchor:  Point{200, 1300},
		Size:    Point{300, 300},
		BGColor: White,
		Slots: []Slot{
			builtinSlot(ElementPower, "Shouts/Powers", Point{0, -125}, big, Color{255, 255, 120, 255}),
			builtinSlot(ElementUtility, "Consumables", Point{0, 125}, big, Color{255, 120, 120, 255}),
			builtinSlot(ElementLeft, "Left Hand", Point{-125, 0}, big, Color{120, 255, 120, 255}),
			builtinSlot(ElementRight, "Right Hand", Point{125, 0}, big, Color{0, 255, 255, 255}),
			builtinSlot(ElementAmmo, "Ammo", Point{62, 62}, Point{62, 62}, Color{255, 0, 255, 255}),
		},
		AnimationAlpha:    51,
		AnimationDuration: 0.1,
	}
}

// Slot returns the geometry for an element.
func (l Layout) Slot(e Element) (Slot, bool) {
	for _, s := range l.Slots {
		if s.Element == e {
			return s, true
		}
	}
	return Slot{}, false
}

// Provider holds the layout from the last refresh.
type Provider struct {
	path   string
	logger log.Logger

	mu      sync.RWMutex
	current Layout
}

// New returns a provider for the layout file at path, holding the default
// layout until the first Refresh.
func New(path string, logger log.Logger) *Provider {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Provider{path: path, logger: logger, current: Default()}
}

// Layout returns the current layout.
func (p *Provider) Layout() Layout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh re-reads the layout file. A missing file is created with the
// default layout. A file that does not parse is left alone, logged, and
// replaced in memory by the defaults. Only I/O failures are returned.
func (p *Provider) Refresh() error {
	next, err := p.read()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.current = next
	p.mu.Unlock()
	return nil
}

func (p *Provider) read() (Layout, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := WriteDefault(p.path); err != nil {
			return Layout{}, err
		}
		level.Info(p.logger).Log("msg", "wrote default layout", "path", p.path)
		return Default(), nil
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}

	l := Default()
	if err := yaml.Unmarshal(data, &l); err != nil {
		level.Warn(p.logger).Log("msg", "bad layout file, using defaults", "path", p.path, "err", err)
		return Default(), nil
	}
	return l, nil
}

// WriteDefault writes the default layout to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// EnsureDefaultFile writes the default layout if path does not exist.
func EnsureDefaultFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat layout: %w", err)
	}
	return WriteDefault(path)
}
