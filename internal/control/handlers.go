package control

import (
	"github.com/go-kit/log/level"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

func equip(s types.Slot, e types.Entry) types.Directive {
	return types.Directive{Kind: types.DirectiveEquip, Slot: s, Entry: e}
}

func (c *Controller) handleKey(e KeyEvent) types.Response {
	c.mu.Lock()
	action := c.settings.ActionFor(e.Key)
	if action == types.ActionIrrelevant {
		c.mu.Unlock()
		return types.Unhandled()
	}
	if !e.Down {
		c.mu.Unlock()
		return types.Handled()
	}

	switch action {
	case types.ActionShowHide:
		visible := c.cycles.ToggleHUDVisible()
		c.mu.Unlock()
		level.Debug(c.logger).Log("msg", "toggled HUD", "visible", visible)
		return types.Handled()

	case types.ActionActivate:
		current, ok := c.cycles.Peek(types.SlotUtility)
		c.mu.Unlock()
		resp := types.Handled()
		if !ok {
			return resp
		}
		if entry, found := c.resolve(current.ID); found {
			resp.Directives = append(resp.Directives, types.Directive{
				Kind:  types.DirectiveUse,
				Slot:  types.SlotUtility,
				Entry: entry,
			})
		}
		return resp
	}

	slot, _ := action.Slot()
	resp := types.Handled()
	switch c.timers[slot] {
	case types.TimerIdle:
		next, ok := c.cycles.Advance(slot)
		if !ok {
			c.mu.Unlock()
			return resp
		}
		c.timers[slot] = types.TimerPending
		c.mu.Unlock()
		resp.StartTimer = action
		level.Debug(c.logger).Log("msg", "advanced cycle", "slot", slot, "id", next.ID)
		return resp

	default:
		// Pressed again before the timer ran out: equip now.
		c.timers[slot] = types.TimerIdle
		current, ok := c.cycles.Peek(slot)
		c.mu.Unlock()
		resp.StopTimer = action
		if !ok {
			return resp
		}
		if entry, found := c.resolve(current.ID); found {
			resp.Directives = append(resp.Directives, equip(slot, entry))
		}
		return resp
	}
}

func (c *Controller) handleTimerExpired(e TimerExpired) types.Response {
	if !e.Slot.IsCycle() {
		return types.Unhandled()
	}

	c.mu.Lock()
	state := c.timers[e.Slot]
	if state == types.TimerIdle {
		c.mu.Unlock()
		return types.Unhandled()
	}
	current, ok := c.cycles.Peek(e.Slot)
	if !ok {
		c.timers[e.Slot] = types.TimerIdle
		c.mu.Unlock()
		return types.Unhandled()
	}
	c.mu.Unlock()

	entry, found := c.resolve(current.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timers[e.Slot] != state {
		// Another event settled this slot while we were looking it up.
		return types.Unhandled()
	}
	if now, ok := c.cycles.Peek(e.Slot); !ok || now.ID != current.ID {
		return types.Unhandled()
	}

	switch {
	case found:
		c.timers[e.Slot] = types.TimerIdle
		resp := types.Handled()
		resp.Directives = []types.Directive{equip(e.Slot, entry)}
		return resp
	case state == types.TimerPending:
		c.timers[e.Slot] = types.TimerExpiredRetry
		c.metrics.timerRetry()
		level.Debug(c.logger).Log("msg", "entry not resolvable, retrying equip", "slot", e.Slot, "id", current.ID)
		resp := types.Handled()
		resp.StartTimer = types.ActionFor(e.Slot)
		return resp
	default:
		c.timers[e.Slot] = types.TimerIdle
		level.Warn(c.logger).Log("msg", "giving up on equip", "slot", e.Slot, "id", current.ID)
		return types.Unhandled()
	}
}

func (c *Controller) handleMenu(e MenuEvent) types.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	action := c.settings.ActionFor(e.Key)
	if action == types.ActionShowHide {
		c.cycles.ToggleHUDVisible()
		return menuResponse(types.MenuOkay)
	}
	slot, ok := action.Slot()
	if !ok || !slot.IsCycle() {
		return menuResponse(types.MenuUnhandled)
	}
	if e.Entry.Validate() != nil {
		return menuResponse(types.MenuError)
	}

	if c.cycles.Contains(slot, e.Entry.ID) {
		c.cycles.Remove(slot, e.Entry.ID)
		c.settleEmptySlots()
		return menuResponse(types.MenuItemRemoved)
	}
	if !slot.Accepts(e.Entry, c.altGrip) {
		return menuResponse(types.MenuItemInappropriate)
	}
	if c.cycles.Len(slot) >= c.settings.MaxCycleLength {
		return menuResponse(types.MenuTooManyItems)
	}
	c.cycles.Add(slot, e.Entry)
	c.cache.Put(e.Entry)
	return menuResponse(types.MenuItemAdded)
}

func menuResponse(m types.MenuResponse) types.Response {
	return types.Response{Handled: m != types.MenuUnhandled, Menu: m}
}

// settleEmptySlots cancels pending equips on slots that lost their last
// entry. Caller holds mu.
func (c *Controller) settleEmptySlots() {
	for _, s := range types.CycleSlots() {
		if c.cycles.Len(s) == 0 {
			c.timers[s] = types.TimerIdle
		}
	}
}

// findEntry returns the stored copy of an identifier from any cycle.
// Caller holds mu.
func (c *Controller) findEntry(id string) (types.Entry, bool) {
	for _, s := range types.CycleSlots() {
		for _, e := range c.cycles.Entries(s) {
			if e.ID == id {
				return e, true
			}
		}
	}
	return types.Entry{}, false
}

func (c *Controller) handleInventoryChanged(e InventoryChanged) types.Response {
	if e.ID == "" {
		return types.Unhandled()
	}
	c.cache.Invalidate(e.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.Count == 0 {
		removed := c.cycles.RemoveEverywhere(e.ID)
		if len(removed) == 0 {
			return types.Unhandled()
		}
		c.settleEmptySlots()
		level.Debug(c.logger).Log("msg", "removed depleted entry", "id", e.ID, "slots", len(removed))
		return types.Handled()
	}

	stored, ok := c.findEntry(e.ID)
	if !ok {
		return types.Unhandled()
	}
	c.cycles.Update(stored.WithCount(e.Count))
	return types.Handled()
}

func (c *Controller) handleItemEquipped(e ItemEquipped) types.Response {
	if e.ID == "" {
		return types.Unhandled()
	}
	c.cache.Invalidate(e.ID)
	if !e.Equipped {
		return types.Unhandled()
	}

	var hands []types.Slot
	if e.Right {
		hands = append(hands, types.SlotRight)
	}
	if e.Left {
		hands = append(hands, types.SlotLeft)
	}
	if len(hands) == 0 {
		hands = append(hands, types.SlotPower)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	resp := types.Unhandled()
	for _, s := range hands {
		if c.timers[s] != types.TimerIdle {
			if current, ok := c.cycles.Peek(s); ok && current.ID == e.ID {
				c.timers[s] = types.TimerIdle
				if resp.StopTimer == types.ActionIrrelevant {
					resp.StopTimer = types.ActionFor(s)
				}
				resp.Handled = true
			}
		}
		if c.timers[s] != types.TimerIdle {
			// The player is cycling this slot; the HUD follows them.
			continue
		}
		if c.cycles.SetCurrent(s, e.ID) {
			resp.Handled = true
		}
	}
	return resp
}

func (c *Controller) handleFavorite(e FavoriteToggled) types.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settings.LinkToFavorites || e.Entry.ID == "" {
		return types.Unhandled()
	}

	if !e.Favorite {
		if len(c.cycles.RemoveEverywhere(e.Entry.ID)) == 0 {
			return types.Unhandled()
		}
		c.settleEmptySlots()
		return menuResponse(types.MenuItemRemoved)
	}

	if e.Entry.Validate() != nil {
		return menuResponse(types.MenuError)
	}
	slots := types.PreferredSlots(e.Entry, c.altGrip)
	if len(slots) == 0 {
		return menuResponse(types.MenuItemInappropriate)
	}
	result := types.MenuTooManyItems
	for _, s := range slots {
		if c.cycles.Contains(s, e.Entry.ID) {
			if result == types.MenuTooManyItems {
				result = types.MenuOkay
			}
			continue
		}
		if c.cycles.Len(s) >= c.settings.MaxCycleLength {
			continue
		}
		c.cycles.Add(s, e.Entry)
		result = types.MenuItemAdded
	}
	if result == types.MenuItemAdded {
		c.cache.Put(e.Entry)
	}
	return menuResponse(result)
}

func (c *Controller) handleGrip(e GripChanged) types.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.altGrip = e.AltGrip
	return types.Handled()
}

func (c *Controller) refreshSettings() types.Response {
	if err := c.settingsProvider.Refresh(); err != nil {
		level.Warn(c.logger).Log("msg", "failed to refresh settings, keeping previous values", "err", err)
		return types.Unhandled()
	}
	settings := c.settingsProvider.Settings()
	if err := settings.Validate(); err != nil {
		level.Warn(c.logger).Log("msg", "refreshed settings are invalid, keeping previous values", "err", err)
		return types.Unhandled()
	}
	c.cache.Resize(settings.CacheSize)

	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()
	level.Info(c.logger).Log("msg", "settings refreshed")
	return types.Handled()
}

func (c *Controller) refreshLayout() types.Response {
	if err := c.layout.Refresh(); err != nil {
		level.Warn(c.logger).Log("msg", "failed to refresh layout", "err", err)
		return types.Unhandled()
	}
	return types.Handled()
}
