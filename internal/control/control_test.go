package control

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// Default hotkeys.
const (
	keyPower    = 3
	keyActivate = 4
	keyLeft     = 5
	keyUtility  = 6
	keyRight    = 7
	keyShowHide = 8
	keyUnbound  = 99
)

type fakeInventory struct {
	mu      sync.Mutex
	items   map[string]types.Entry
	lookups map[string]int
	// onLookup runs inside Lookup, standing in for host code that calls back
	// into the controller.
	onLookup func()
}

func newInventory(items ...types.Entry) *fakeInventory {
	inv := &fakeInventory{items: map[string]types.Entry{}, lookups: map[string]int{}}
	for _, e := range items {
		inv.items[e.ID] = e
	}
	return inv
}

func (f *fakeInventory) Lookup(id string) (types.Entry, bool) {
	if f.onLookup != nil {
		f.onLookup()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups[id]++
	e, ok := f.items[id]
	return e, ok
}

func (f *fakeInventory) Extra(id string) types.ExtraData {
	if id == "staff" {
		return types.ExtraData{HasCharge: true, MaxCharge: 100, Charge: 50}
	}
	return types.ExtraData{}
}

func (f *fakeInventory) set(e types.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[e.ID] = e
}

func (f *fakeInventory) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
}

func (f *fakeInventory) lookupCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups[id]
}

type fakeSettings struct {
	current types.Settings
	next    types.Settings
	err     error
}

func (f *fakeSettings) Refresh() error {
	if f.err != nil {
		return f.err
	}
	f.current = f.next
	return nil
}

func (f *fakeSettings) Settings() types.Settings { return f.current }

type fakeLayout struct {
	refreshes int
	err       error
}

func (f *fakeLayout) Refresh() error {
	f.refreshes++
	return f.err
}

var (
	sword    = types.NewEntry(types.KindSwordOneHanded, "sword", "Iron Sword")
	dagger   = types.NewEntry(types.KindDagger, "dagger", "Steel Dagger")
	greatsw  = types.NewEntry(types.KindSwordTwoHanded, "greatsword", "Steel Greatsword")
	shield   = types.NewEntry(types.KindShield, "shield", "Hide Shield")
	staff    = types.NewEntry(types.KindStaff, "staff", "Staff of Flames")
	fus      = types.NewEntry(types.KindShout, "fus", "Unrelenting Force")
	potion   = types.NewEntry(types.KindPotionHealth, "potion", "Potion of Healing").WithCount(3)
	cabbage  = types.NewEntry(types.KindFood, "cabbage", "Cabbage").WithCount(2)
	scroll   = types.NewEntry(types.KindScroll, "scroll", "Scroll of Firebolt")
	allItems = []types.Entry{sword, dagger, greatsw, shield, staff, fus, potion, cabbage, scroll}
)

func newController(t *testing.T, inv Inventory) *Controller {
	t.Helper()
	c, err := New(Options{Inventory: inv})
	require.NoError(t, err)
	return c
}

func addViaMenu(t *testing.T, c *Controller, key uint32, e types.Entry) {
	t.Helper()
	resp := c.Handle(MenuEvent{Key: key, Entry: e})
	require.Equal(t, types.MenuItemAdded, resp.Menu, "adding %s", e.ID)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	bad := types.DefaultSettings()
	bad.MaxCycleLength = 1
	_, err := New(Options{Settings: StaticSettings(bad)})
	assert.ErrorIs(t, err, types.ErrCycleLengthTooLow)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestKeyDownAdvancesAndStartsTimer(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	addViaMenu(t, c, keyRight, staff)

	resp := c.Handle(KeyEvent{Key: keyRight, Down: true})
	assert.True(t, resp.Handled)
	assert.Equal(t, types.ActionRight, resp.StartTimer)
	assert.Empty(t, resp.Directives)
	assert.Equal(t, types.TimerPending, c.Timer(types.SlotRight))
	assert.Equal(t, []string{"sword", "staff"}, c.CycleIDs(types.SlotRight))

	resp = c.Handle(TimerExpired{Slot: types.SlotRight})
	assert.True(t, resp.Handled)
	require.Len(t, resp.Directives, 1)
	assert.Equal(t, types.DirectiveEquip, resp.Directives[0].Kind)
	assert.Equal(t, types.SlotRight, resp.Directives[0].Slot)
	assert.Equal(t, "staff", resp.Directives[0].Entry.ID)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotRight))
}

func TestSecondPressWhilePendingEquipsImmediately(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyPower, fus)

	c.Handle(KeyEvent{Key: keyPower, Down: true})
	require.Equal(t, types.TimerPending, c.Timer(types.SlotPower))

	resp := c.Handle(KeyEvent{Key: keyPower, Down: true})
	assert.True(t, resp.Handled)
	assert.Equal(t, types.ActionPower, resp.StopTimer)
	assert.Equal(t, types.ActionIrrelevant, resp.StartTimer)
	require.Len(t, resp.Directives, 1)
	assert.Equal(t, "fus", resp.Directives[0].Entry.ID)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotPower))

	// The timer the host already had running is now stale.
	assert.False(t, c.Handle(TimerExpired{Slot: types.SlotPower}).Handled)
}

func TestKeyEventsThatChangeNothing(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyUtility, potion)
	before := c.Snapshot()

	tests := []struct {
		name        string
		event       KeyEvent
		wantHandled bool
	}{
		{"unbound key down", KeyEvent{Key: keyUnbound, Down: true}, false},
		{"unbound key up", KeyEvent{Key: keyUnbound}, false},
		{"bound key up", KeyEvent{Key: keyUtility}, true},
		{"down on empty cycle", KeyEvent{Key: keyLeft, Down: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.Handle(tt.event)
			assert.Equal(t, tt.wantHandled, resp.Handled)
			assert.Equal(t, types.ActionIrrelevant, resp.StartTimer)
			assert.Empty(t, resp.Directives)
		})
	}
	assert.Equal(t, before, c.Snapshot())
}

func TestShowHideKeyTogglesHUD(t *testing.T) {
	c := newController(t, nil)
	assert.True(t, c.Handle(KeyEvent{Key: keyShowHide, Down: true}).Handled)
	assert.False(t, c.Snapshot().HUDVisible)
	c.Handle(KeyEvent{Key: keyShowHide, Down: true})
	assert.True(t, c.Snapshot().HUDVisible)
}

func TestActivateUsesCurrentUtility(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	resp := c.Handle(KeyEvent{Key: keyActivate, Down: true})
	assert.True(t, resp.Handled)
	assert.Empty(t, resp.Directives)

	addViaMenu(t, c, keyUtility, potion)
	resp = c.Handle(KeyEvent{Key: keyActivate, Down: true})
	require.Len(t, resp.Directives, 1)
	assert.Equal(t, types.DirectiveUse, resp.Directives[0].Kind)
	assert.Equal(t, "potion", resp.Directives[0].Entry.ID)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotUtility))
}

func TestTimerRetriesOnceThenGivesUp(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)
	addViaMenu(t, c, keyLeft, shield)
	addViaMenu(t, c, keyLeft, dagger)
	inv.drop("dagger")
	c.ClearCache()

	c.Handle(KeyEvent{Key: keyLeft, Down: true})

	resp := c.Handle(TimerExpired{Slot: types.SlotLeft})
	assert.True(t, resp.Handled)
	assert.Equal(t, types.ActionLeft, resp.StartTimer)
	assert.Empty(t, resp.Directives)
	assert.Equal(t, types.TimerExpiredRetry, c.Timer(types.SlotLeft))

	resp = c.Handle(TimerExpired{Slot: types.SlotLeft})
	assert.False(t, resp.Handled)
	assert.Equal(t, types.ActionIrrelevant, resp.StartTimer)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotLeft))
	assert.Equal(t, 2, inv.lookupCount("dagger"), "failed lookups are not cached")
}

func TestTimerRetrySucceedsWhenItemReturns(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)
	addViaMenu(t, c, keyLeft, shield)
	addViaMenu(t, c, keyLeft, dagger)
	inv.drop("dagger")
	c.ClearCache()

	c.Handle(KeyEvent{Key: keyLeft, Down: true})
	c.Handle(TimerExpired{Slot: types.SlotLeft})
	inv.set(dagger)

	resp := c.Handle(TimerExpired{Slot: types.SlotLeft})
	require.Len(t, resp.Directives, 1)
	assert.Equal(t, "dagger", resp.Directives[0].Entry.ID)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotLeft))
}

func TestTimerExpiredIgnoredWhenNotPending(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	assert.False(t, c.Handle(TimerExpired{Slot: types.SlotRight}).Handled)
	assert.False(t, c.Handle(TimerExpired{Slot: types.SlotActivate}).Handled)
}

func TestMenuResponses(t *testing.T) {
	full := types.DefaultSettings()
	full.MaxCycleLength = 2

	tests := []struct {
		name  string
		setup func(c *Controller)
		event MenuEvent
		want  types.MenuResponse
	}{
		{"add", nil, MenuEvent{Key: keyUtility, Entry: potion}, types.MenuItemAdded},
		{"remove when present", func(c *Controller) {
			c.Handle(MenuEvent{Key: keyUtility, Entry: potion})
		}, MenuEvent{Key: keyUtility, Entry: potion}, types.MenuItemRemoved},
		{"wrong kind for slot", nil, MenuEvent{Key: keyPower, Entry: sword}, types.MenuItemInappropriate},
		{"two-handed in left hand", nil, MenuEvent{Key: keyLeft, Entry: greatsw}, types.MenuItemInappropriate},
		{"slot full", func(c *Controller) {
			c.Handle(MenuEvent{Key: keyUtility, Entry: potion})
			c.Handle(MenuEvent{Key: keyUtility, Entry: cabbage})
		}, MenuEvent{Key: keyUtility, Entry: scroll}, types.MenuTooManyItems},
		{"empty identifier", nil, MenuEvent{Key: keyUtility, Entry: types.Entry{Kind: types.KindFood}}, types.MenuError},
		{"show/hide key", nil, MenuEvent{Key: keyShowHide, Entry: potion}, types.MenuOkay},
		{"activate key", nil, MenuEvent{Key: keyActivate, Entry: potion}, types.MenuUnhandled},
		{"unbound key", nil, MenuEvent{Key: keyUnbound, Entry: potion}, types.MenuUnhandled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Options{Settings: StaticSettings(full)})
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(c)
			}
			resp := c.Handle(tt.event)
			assert.Equal(t, tt.want, resp.Menu)
			assert.Equal(t, tt.want != types.MenuUnhandled, resp.Handled)
		})
	}
}

func TestMenuRejectsEntriesSavesCannotHold(t *testing.T) {
	tests := []struct {
		name  string
		entry types.Entry
	}{
		{"kind outside the enum", types.Entry{Kind: types.EntryKind(200), ID: "odd", Name: "Odd"}},
		{"identifier not UTF-8", types.NewEntry(types.KindFood, "a\xff", "Apple")},
		{"identifier too long", types.NewEntry(types.KindFood, strings.Repeat("x", types.MaxTextLen+1), "Apple")},
		{"name too long", types.NewEntry(types.KindFood, "apple", strings.Repeat("x", types.MaxTextLen+1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, newInventory(allItems...))
			addViaMenu(t, c, keyUtility, potion)

			assert.Equal(t, types.MenuError, c.Handle(MenuEvent{Key: keyUtility, Entry: tt.entry}).Menu)
			assert.Equal(t, types.MenuError, c.Handle(FavoriteToggled{Entry: tt.entry, Favorite: true}).Menu)
			assert.Equal(t, []string{"potion"}, c.CycleIDs(types.SlotUtility))

			fresh := newController(t, newInventory(allItems...))
			require.True(t, fresh.Load(c.Save()))
			assert.Equal(t, []string{"potion"}, fresh.CycleIDs(types.SlotUtility))
		})
	}
}

func TestMenuRejectsIdentifiersThatWouldCollideInSave(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyUtility, potion)
	for _, id := range []string{"a\xff", "a\xfe"} {
		resp := c.Handle(MenuEvent{Key: keyUtility, Entry: types.NewEntry(types.KindFood, id, "Apple")})
		assert.Equal(t, types.MenuError, resp.Menu)
	}

	fresh := newController(t, newInventory(allItems...))
	require.True(t, fresh.Load(c.Save()))
	assert.Equal(t, c.CycleIDs(types.SlotUtility), fresh.CycleIDs(types.SlotUtility))
}

func TestMenuRemovalKeepsPendingTimerUnlessEmpty(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	c.Handle(KeyEvent{Key: keyRight, Down: true})
	require.Equal(t, types.TimerPending, c.Timer(types.SlotRight))

	c.Handle(MenuEvent{Key: keyRight, Entry: sword})
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotRight))
}

func TestGripChangesAppropriateness(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	assert.True(t, c.Handle(GripChanged{AltGrip: true}).Handled)
	assert.Equal(t, types.MenuItemAdded, c.Handle(MenuEvent{Key: keyLeft, Entry: greatsw}).Menu)
	assert.Equal(t, types.MenuItemInappropriate, c.Handle(MenuEvent{Key: keyLeft, Entry: sword}).Menu)
	assert.True(t, c.Snapshot().AltGrip)
}

func TestInventoryDepletedRemovesEverywhere(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)
	addViaMenu(t, c, keyUtility, potion)
	addViaMenu(t, c, keyUtility, cabbage)

	_, cached := c.cache.Get("potion")
	require.True(t, cached)

	resp := c.Handle(InventoryChanged{ID: "potion", Count: 0})
	assert.True(t, resp.Handled)
	assert.Equal(t, []string{"cabbage"}, c.CycleIDs(types.SlotUtility))
	_, cached = c.cache.Get("potion")
	assert.False(t, cached, "cache entry invalidated")

	assert.False(t, c.Handle(InventoryChanged{ID: "potion", Count: 0}).Handled)
}

func TestInventoryDepletionSpansHands(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyLeft, dagger)
	addViaMenu(t, c, keyRight, dagger)
	c.Handle(KeyEvent{Key: keyLeft, Down: true})

	c.Handle(InventoryChanged{ID: "dagger", Count: 0})
	assert.Empty(t, c.CycleIDs(types.SlotLeft))
	assert.Empty(t, c.CycleIDs(types.SlotRight))
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotLeft))
}

func TestInventoryCountUpdatesStoredEntry(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)
	addViaMenu(t, c, keyUtility, potion)
	c.EntryToShow(types.SlotUtility)

	inv.set(potion.WithCount(9))
	assert.True(t, c.Handle(InventoryChanged{ID: "potion", Count: 9}).Handled)

	stored := c.Snapshot().Slots[types.SlotUtility].Entries[0]
	assert.Equal(t, uint32(9), stored.Count)
	shown, _ := c.EntryToShow(types.SlotUtility)
	assert.Equal(t, uint32(9), shown.Count)
	assert.Equal(t, 1, inv.lookupCount("potion"))

	assert.False(t, c.Handle(InventoryChanged{ID: "unknown", Count: 4}).Handled)
	assert.False(t, c.Handle(InventoryChanged{Count: 4}).Handled)
}

func TestItemEquippedAlignsCurrent(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	addViaMenu(t, c, keyRight, dagger)
	addViaMenu(t, c, keyLeft, shield)
	addViaMenu(t, c, keyLeft, dagger)

	resp := c.Handle(ItemEquipped{Equipped: true, ID: "dagger", Left: true})
	assert.True(t, resp.Handled)
	assert.Equal(t, 1, c.Snapshot().Slots[types.SlotLeft].Current)
	assert.Equal(t, 0, c.Snapshot().Slots[types.SlotRight].Current)

	assert.False(t, c.Handle(ItemEquipped{Equipped: false, ID: "sword", Right: true}).Handled)
	assert.False(t, c.Handle(ItemEquipped{Equipped: true, ID: "nothing", Right: true}).Handled)
}

func TestItemEquippedClearsPendingTimer(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	addViaMenu(t, c, keyRight, dagger)
	c.Handle(KeyEvent{Key: keyRight, Down: true})

	resp := c.Handle(ItemEquipped{Equipped: true, ID: "dagger", Right: true})
	assert.True(t, resp.Handled)
	assert.Equal(t, types.ActionRight, resp.StopTimer)
	assert.Equal(t, types.TimerIdle, c.Timer(types.SlotRight))
}

func TestItemEquippedLeavesPlayerCycling(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	addViaMenu(t, c, keyRight, dagger)
	c.Handle(KeyEvent{Key: keyRight, Down: true})

	c.Handle(ItemEquipped{Equipped: true, ID: "sword", Right: true})
	assert.Equal(t, types.TimerPending, c.Timer(types.SlotRight))
	assert.Equal(t, 1, c.Snapshot().Slots[types.SlotRight].Current)
}

func TestItemEquippedWithoutHandsTargetsPower(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	power := types.NewEntry(types.KindPower, "pow", "Beast Form")
	addViaMenu(t, c, keyPower, fus)
	addViaMenu(t, c, keyPower, power)
	assert.True(t, c.Handle(ItemEquipped{Equipped: true, ID: "pow"}).Handled)
	assert.Equal(t, 1, c.Snapshot().Slots[types.SlotPower].Current)
}

func TestFavoriteToggled(t *testing.T) {
	c := newController(t, newInventory(allItems...))

	resp := c.Handle(FavoriteToggled{Entry: dagger, Favorite: true})
	assert.Equal(t, types.MenuItemAdded, resp.Menu)
	assert.Equal(t, []string{"dagger"}, c.CycleIDs(types.SlotRight))
	assert.Equal(t, []string{"dagger"}, c.CycleIDs(types.SlotLeft))

	resp = c.Handle(FavoriteToggled{Entry: dagger, Favorite: true})
	assert.Equal(t, types.MenuOkay, resp.Menu, "already filed")

	resp = c.Handle(FavoriteToggled{Entry: scroll, Favorite: true})
	assert.Equal(t, types.MenuItemAdded, resp.Menu)
	assert.Equal(t, []string{"scroll"}, c.CycleIDs(types.SlotUtility))
	assert.Empty(t, c.CycleIDs(types.SlotPower))

	arrow := types.NewEntry(types.KindArrow, "arrow", "Iron Arrow")
	assert.Equal(t, types.MenuItemInappropriate, c.Handle(FavoriteToggled{Entry: arrow, Favorite: true}).Menu)

	resp = c.Handle(FavoriteToggled{Entry: dagger})
	assert.Equal(t, types.MenuItemRemoved, resp.Menu)
	assert.Empty(t, c.CycleIDs(types.SlotRight))
	assert.Empty(t, c.CycleIDs(types.SlotLeft))

	assert.False(t, c.Handle(FavoriteToggled{Entry: dagger}).Handled)
}

func TestFavoriteRespectsCapacity(t *testing.T) {
	s := types.DefaultSettings()
	s.MaxCycleLength = 2
	c, err := New(Options{Settings: StaticSettings(s)})
	require.NoError(t, err)
	c.Handle(FavoriteToggled{Entry: potion, Favorite: true})
	c.Handle(FavoriteToggled{Entry: cabbage, Favorite: true})

	resp := c.Handle(FavoriteToggled{Entry: scroll, Favorite: true})
	assert.Equal(t, types.MenuTooManyItems, resp.Menu)
	assert.Len(t, c.CycleIDs(types.SlotUtility), 2)
}

func TestFavoritesUnlinked(t *testing.T) {
	s := types.DefaultSettings()
	s.LinkToFavorites = false
	c, err := New(Options{Settings: StaticSettings(s)})
	require.NoError(t, err)
	assert.False(t, c.Handle(FavoriteToggled{Entry: dagger, Favorite: true}).Handled)
	assert.Empty(t, c.CycleIDs(types.SlotRight))
}

func TestSettingsRefresh(t *testing.T) {
	provider := &fakeSettings{current: types.DefaultSettings()}
	c, err := New(Options{Settings: provider})
	require.NoError(t, err)
	c.Handle(MenuEvent{Key: keyUtility, Entry: potion})

	t.Run("provider failure keeps previous settings", func(t *testing.T) {
		provider.err = errors.New("disk on fire")
		assert.False(t, c.Handle(SettingsRefresh{}).Handled)
		assert.Equal(t, types.DefaultSettings(), c.Settings())
		provider.err = nil
	})

	t.Run("invalid settings keep previous settings", func(t *testing.T) {
		provider.next = types.DefaultSettings()
		provider.next.CacheSize = 0
		assert.False(t, c.Handle(SettingsRefresh{}).Handled)
		assert.Equal(t, types.DefaultSettings(), c.Settings())
	})

	t.Run("new bindings apply without touching cycles", func(t *testing.T) {
		provider.next = types.DefaultSettings()
		provider.next.UtilityKey = 42
		assert.True(t, c.Handle(SettingsRefresh{}).Handled)
		assert.Equal(t, uint32(42), c.Settings().UtilityKey)
		assert.Equal(t, []string{"potion"}, c.CycleIDs(types.SlotUtility))
		assert.False(t, c.Handle(KeyEvent{Key: keyUtility, Down: true}).Handled)
	})
}

func TestLayoutRefresh(t *testing.T) {
	layout := &fakeLayout{}
	c, err := New(Options{Layout: layout})
	require.NoError(t, err)
	before := c.Snapshot()

	assert.True(t, c.Handle(LayoutRefresh{}).Handled)
	layout.err = errors.New("bad yaml")
	assert.False(t, c.Handle(LayoutRefresh{}).Handled)
	assert.Equal(t, 2, layout.refreshes)
	assert.Equal(t, before, c.Snapshot())
}

func TestUnknownEventIsUnhandled(t *testing.T) {
	c := newController(t, nil)
	assert.NotPanics(t, func() {
		assert.Equal(t, types.Unhandled(), c.Handle(nil))
	})
}

func TestEntryToShow(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)

	e, ok := c.EntryToShow(types.SlotLeft)
	require.True(t, ok)
	assert.Equal(t, types.UnarmedID, e.ID)
	_, ok = c.EntryToShow(types.SlotPower)
	assert.False(t, ok)

	addViaMenu(t, c, keyRight, staff)
	e, ok = c.EntryToShow(types.SlotRight)
	require.True(t, ok)
	assert.InDelta(t, 0.5, e.Extra.ChargePercent(), 0.001)

	inv.drop("staff")
	c.ClearCache()
	e, ok = c.EntryToShow(types.SlotRight)
	require.True(t, ok, "stored copy shown when the host forgets the item")
	assert.Equal(t, "Staff of Flames", e.Name)
}

func TestClearCycles(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	addViaMenu(t, c, keyRight, sword)
	c.Handle(KeyEvent{Key: keyRight, Down: true})
	c.ClearCycles()
	for _, s := range types.CycleSlots() {
		assert.Empty(t, c.CycleIDs(s))
		assert.Equal(t, types.TimerIdle, c.Timer(s))
	}
}

func TestHostCallbacksMayReenter(t *testing.T) {
	inv := newInventory(allItems...)
	c := newController(t, inv)
	inv.onLookup = func() { c.CycleIDs(types.SlotRight) }
	addViaMenu(t, c, keyRight, sword)
	c.ClearCache()

	c.Handle(KeyEvent{Key: keyRight, Down: true})
	resp := c.Handle(TimerExpired{Slot: types.SlotRight})
	require.Len(t, resp.Directives, 1)
}

func TestConcurrentEvents(t *testing.T) {
	c := newController(t, newInventory(allItems...))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (i + j) % 5 {
				case 0:
					c.Handle(MenuEvent{Key: keyUtility, Entry: potion})
				case 1:
					c.Handle(KeyEvent{Key: keyUtility, Down: true})
				case 2:
					c.Handle(TimerExpired{Slot: types.SlotUtility})
				case 3:
					c.Handle(InventoryChanged{ID: "potion", Count: uint32(j % 3)})
				default:
					c.Save()
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, len(c.CycleIDs(types.SlotUtility)), 1)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	c, err := New(Options{Inventory: newInventory(allItems...), Metrics: m})
	require.NoError(t, err)

	c.Handle(MenuEvent{Key: keyUtility, Entry: potion})
	c.Handle(MenuEvent{Key: keyPower, Entry: potion})
	c.Handle(KeyEvent{Key: keyActivate, Down: true})
	c.Handle(KeyEvent{Key: keyUnbound, Down: true})
	c.Load([]byte("garbage"), 3)

	require.Equal(t, float64(2), testutil.ToFloat64(m.Events.WithLabelValues("menu", "true")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Events.WithLabelValues("key", "false")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.MenuResponses.WithLabelValues("item_added")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.MenuResponses.WithLabelValues("item_inappropriate")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Directives.WithLabelValues("use")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.DecodeFailures))
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"12", 12},
		{" 7 ", 7},
		{"-3", -3},
		{"", -1},
		{"seven", -1},
		{"3.5", -1},
		{"99999999999", -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIndex(tt.in))
		})
	}
}
