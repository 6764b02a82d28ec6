// Package control implements the controller: the single owner of the cycles,
// the presets, and the entry cache, driven by host events.
//
// Every operation takes the controller's lock for its duration. Calls back
// into the host (inventory lookups, settings and layout refreshes) happen
// with the lock released, so the host may call back into the controller
// from inside them.
package control

import (
	"fmt"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/mesh-intelligence/cyclehud/internal/cache"
	"github.com/mesh-intelligence/cyclehud/internal/cycles"
	"github.com/mesh-intelligence/cyclehud/internal/presets"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// Options configures a Controller. Zero fields get defaults: default
// settings, no layout, an empty inventory, a no-op logger, and no metrics.
type Options struct {
	Settings  SettingsProvider
	Layout    LayoutProvider
	Inventory Inventory
	Logger    log.Logger
	Metrics   *Metrics
}

// Controller routes host events to the stores and answers with directives.
type Controller struct {
	settingsProvider SettingsProvider
	layout           LayoutProvider
	inventory        Inventory
	logger           log.Logger
	metrics          *Metrics

	// cache is safe for concurrent use and is read outside mu.
	cache *cache.EntryCache

	mu       sync.Mutex
	settings types.Settings
	cycles   *cycles.Cycles
	presets  *presets.Presets
	timers   [types.NumCycleSlots]types.TimerState
	altGrip  bool
}

// New creates a controller with empty stores.
func New(opts Options) (*Controller, error) {
	if opts.Settings == nil {
		opts.Settings = StaticSettings(types.DefaultSettings())
	}
	if opts.Layout == nil {
		opts.Layout = noLayout{}
	}
	if opts.Inventory == nil {
		opts.Inventory = noInventory{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	settings := opts.Settings.Settings()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	entries, err := cache.New(settings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create entry cache: %w", err)
	}

	return &Controller{
		settingsProvider: opts.Settings,
		layout:           opts.Layout,
		inventory:        opts.Inventory,
		logger:           opts.Logger,
		metrics:          opts.Metrics,
		cache:            entries,
		settings:         settings,
		cycles:           cycles.New(),
		presets:          presets.New(),
	}, nil
}

var (
	defaultOnce       sync.Once
	defaultController *Controller
)

// Default returns the process-wide controller, creating it with default
// options on first use.
func Default() *Controller {
	defaultOnce.Do(func() {
		c, err := New(Options{})
		if err != nil {
			// default settings always validate
			panic(err)
		}
		defaultController = c
	})
	return defaultController
}

// Handle applies one host event and returns what the host should do next.
func (c *Controller) Handle(ev Event) types.Response {
	var resp types.Response
	switch e := ev.(type) {
	case KeyEvent:
		resp = c.handleKey(e)
	case MenuEvent:
		resp = c.handleMenu(e)
	case InventoryChanged:
		resp = c.handleInventoryChanged(e)
	case ItemEquipped:
		resp = c.handleItemEquipped(e)
	case FavoriteToggled:
		resp = c.handleFavorite(e)
	case GripChanged:
		resp = c.handleGrip(e)
	case TimerExpired:
		resp = c.handleTimerExpired(e)
	case SettingsRefresh:
		resp = c.refreshSettings()
	case LayoutRefresh:
		resp = c.refreshLayout()
	default:
		level.Warn(c.logger).Log("msg", "ignoring unknown event", "type", fmt.Sprintf("%T", ev))
		resp = types.Unhandled()
	}
	c.metrics.observe(EventName(ev), resp)
	return resp
}

// resolve returns fresh metadata for an identifier through the cache. It must
// be called without mu held.
func (c *Controller) resolve(id string) (types.Entry, bool) {
	if id == "" {
		return types.Entry{}, false
	}
	if id == types.UnarmedID {
		return types.Unarmed(), true
	}
	return c.cache.GetOrCompute(id, c.inventory.Lookup)
}

// Settings returns the settings currently in effect.
func (c *Controller) Settings() types.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Timer returns the delayed-equip state of a cycle slot.
func (c *Controller) Timer(s types.Slot) types.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !s.IsCycle() {
		return types.TimerIdle
	}
	return c.timers[s]
}

// EntryToShow returns the entry the HUD should draw for a slot, with fresh
// metadata and extra data attached. An empty hand shows as unarmed. When the
// host no longer knows the entry, the stored copy is returned.
func (c *Controller) EntryToShow(s types.Slot) (types.Entry, bool) {
	c.mu.Lock()
	stored, ok := c.cycles.Peek(s)
	c.mu.Unlock()

	if !ok {
		if s == types.SlotLeft || s == types.SlotRight {
			return types.Unarmed(), true
		}
		return types.Entry{}, false
	}
	e, found := c.resolve(stored.ID)
	if !found {
		return stored, true
	}
	return e.WithExtra(c.inventory.Extra(e.ID)), true
}

// CycleNames returns the display names in a slot's cycle.
func (c *Controller) CycleNames(s types.Slot) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles.Names(s)
}

// CycleIDs returns the identifiers in a slot's cycle.
func (c *Controller) CycleIDs(s types.Slot) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles.IDs(s)
}

// ClearCycles empties every cycle and cancels pending equips.
func (c *Controller) ClearCycles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycles.Clear()
	c.timers = [types.NumCycleSlots]types.TimerState{}
	level.Info(c.logger).Log("msg", "cleared all cycles")
}

// ClearCache drops all cached entry metadata.
func (c *Controller) ClearCache() {
	c.cache.Clear()
}
