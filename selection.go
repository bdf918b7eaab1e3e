package choices

import (
	"context"
	"errors"
	"slices"
)

// SelectMode says how SelectItem treats the target id.
type SelectMode int

const (
	// SelectToggle flips membership in multi-select and selects in
	// single-select.
	SelectToggle SelectMode = iota
	SelectOn
	SelectOff
)

func (m SelectMode) resolve(current bool) bool {
	switch m {
	case SelectOn:
		return true
	case SelectOff:
		return false
	default:
		return !current
	}
}

func (c *Controller) setValue(v Value) {
	if c.value.Equal(v) {
		return
	}
	c.value = v
	c.valueVersion++
}

func (c *Controller) isSelected(id OptionID) bool {
	if id.IsNull() {
		return false
	}
	return c.value.Contains(id) != c.excluded
}

func (c *Controller) itemsFor(options []Option) []OptionItem {
	out := make([]OptionItem, len(options))
	for i, opt := range options {
		out[i] = OptionItem{Option: opt, Selected: c.isSelected(opt.ID)}
	}
	return out
}

func (c *Controller) reflagFiltered() {
	if c.batching {
		return
	}
	for i := range c.filtered {
		if c.filtered[i].IsGroup {
			continue
		}
		c.filtered[i].Selected = c.isSelected(c.filtered[i].ID)
	}
}

// findLocal looks id up in everything held locally: the filtered window,
// the remote window and both static sources.
func (c *Controller) findLocal(id OptionID) (Option, bool) {
	for _, item := range c.filtered {
		if !item.IsGroup && item.ID == id {
			return item.Option, true
		}
	}
	for _, source := range [][]Option{c.dyn, c.list.options, c.external.options} {
		for _, opt := range source {
			if opt.ID == id {
				return opt, true
			}
		}
	}
	return Option{}, false
}

// lookup serves id from the cache, populating it from local sources.
func (c *Controller) lookup(id OptionID) (Option, bool) {
	if id.IsNull() {
		return Option{}, false
	}
	if opt, ok := c.items.Get(id); ok {
		return opt, true
	}
	opt, ok := c.findLocal(id)
	if ok {
		c.items.Set(opt.ID, opt)
	}
	return opt, ok
}

func (c *Controller) hasValue(id OptionID) bool {
	if id.IsNull() {
		return true
	}
	_, ok := c.findLocal(id)
	return ok
}

func placeholder(id OptionID) Option {
	return Option{ID: id, Text: id.String()}
}

func (c *Controller) placeholders(ids []OptionID, found map[OptionID]Option) []OptionItem {
	options := make([]Option, 0, len(ids))
	for _, id := range ids {
		if opt, ok := found[id]; ok {
			options = append(options, opt)
			continue
		}
		if opt, ok := c.lookup(id); ok {
			options = append(options, opt)
			continue
		}
		options = append(options, placeholder(id))
	}
	return c.itemsFor(options)
}

// SelectItem changes the membership of id. Disabled options are rejected
// while the universe is fully known, as are unknown ids under StrictValue.
// A null id clears a multi-select value. In single-select the control
// closes unless keepOpen is set.
func (c *Controller) SelectItem(id OptionID, mode SelectMode, keepOpen bool) {
	c.update(func() {
		c.selectLocked(id, mode, keepOpen)
	})
}

func (c *Controller) selectLocked(id OptionID, mode SelectMode, keepOpen bool) bool {
	if !c.isPartial() {
		for _, opt := range c.all {
			if opt.ID == id && opt.Disabled {
				return false
			}
		}
	}
	if c.params.StrictValue && !c.hasValue(id) {
		return false
	}

	changed := false
	if c.params.Multiple {
		current := c.value.AsMultiple()
		stored := current.Contains(id)
		// in exclusion mode a stored id is a deselected one
		store := mode.resolve(stored != c.excluded) != c.excluded
		switch {
		case id.IsNull():
			changed = current.Len() > 0
			c.setValue(Multiple())
		case store && !stored:
			c.setValue(current.with(id))
			changed = true
		case !store && stored:
			c.setValue(current.without(id))
			changed = true
		}
		if changed && !c.batching {
			c.reflagFiltered()
			c.buildSelected()
		}
	} else {
		previous := c.value.ID()
		if !keepOpen {
			c.commitLocked(Open(false))
		}
		selected := mode != SelectOff || id.IsNull()
		if !selected {
			if id != previous {
				return false
			}
			id = NullID()
		} else if id == previous {
			return false
		}
		c.commitLocked(InternalValue(Single(id)))
		changed = true
	}

	if changed {
		c.status.HasChanged = true
		if !c.batching {
			c.emitSelectionChanged()
		}
	}
	return changed
}

// ToggleSelectAll selects or deselects everything in multi-select. When the
// filtered universe is not fully held it switches exclusion mode instead,
// which needs AllowRevert and no active search.
func (c *Controller) ToggleSelectAll() {
	c.update(func() {
		if !c.params.Multiple {
			return
		}
		if !c.hasAllItems() {
			if c.search != "" {
				c.setError(ErrSearchTooLargeForSelectAll, c.texts[TextCannotSelectAllSearchedItems], nil)
				return
			}
			if !c.params.allowRevert() {
				c.setError(ErrRevertUnavailable, c.texts[TextCannotSelectAllRevertItems], nil)
				return
			}
			c.excluded = c.value.Len() > 0 || !c.excluded
			c.setValue(Multiple())
			c.status.HasChanged = true
			c.assertValue(false)
			c.reflagFiltered()
			c.buildSelected()
			c.clearSelectAllError()
			c.emitAllToggled(c.excluded)
			return
		}

		selectAll := !c.areAllSelected()
		c.batching = true
		for _, item := range slices.Clone(c.filtered) {
			if item.IsGroup {
				continue
			}
			mode := SelectOff
			if selectAll {
				mode = SelectOn
			}
			c.selectLocked(item.ID, mode, false)
		}
		c.batching = false
		c.reflagFiltered()
		c.buildSelected()
		c.clearSelectAllError()
		c.emitAllToggled(selectAll)
	})
}

func (c *Controller) clearSelectAllError() {
	if errors.Is(c.status.Err, ErrSearchTooLargeForSelectAll) || errors.Is(c.status.Err, ErrRevertUnavailable) {
		c.clearError()
	}
}

func (c *Controller) areAllSelected() bool {
	if !c.hasAllItems() {
		return false
	}
	seen := false
	for _, item := range c.filtered {
		if item.IsGroup || item.Disabled {
			continue
		}
		if !c.isSelected(item.ID) {
			return false
		}
		seen = true
	}
	return seen
}

// assertValue normalizes the value shape, materializes exclusion mode once
// the universe is known and, under StrictValue, drops ids nobody can vouch
// for. Unknown ids of a remote-backed universe are resolved first and the
// check runs again with forceStrict.
func (c *Controller) assertValue(forceStrict bool) {
	v := c.value.Shaped(c.params.Multiple)
	if c.params.Multiple {
		if c.excluded && c.hasFetchedAll() {
			ids := make([]OptionID, 0, len(c.all))
			for _, opt := range c.all {
				if !v.Contains(opt.ID) {
					ids = append(ids, opt.ID)
				}
			}
			v = Multiple(ids...)
			c.excluded = false
		}
	} else {
		c.excluded = false
	}

	if c.params.StrictValue {
		var unknown []OptionID
		for _, id := range v.IDs() {
			if _, ok := c.lookup(id); !ok {
				unknown = append(unknown, id)
			}
		}
		if len(unknown) > 0 {
			if c.isPartial() && !forceStrict && c.resolver != nil {
				c.setValue(v)
				c.recheckStrict(unknown)
				return
			}
			v = pruneValue(v, unknown)
		}
	}
	c.setValue(v)
}

func pruneValue(v Value, drop []OptionID) Value {
	if !v.IsMultiple() {
		if slices.Contains(drop, v.ID()) {
			return Single(NullID())
		}
		return v
	}
	kept := slices.DeleteFunc(v.IDs(), func(id OptionID) bool {
		return slices.Contains(drop, id)
	})
	return Multiple(kept...)
}

// recheckStrict resolves unknown ids and re-runs the strict check, unless
// the value changed in the meantime.
func (c *Controller) recheckStrict(unknown []OptionID) {
	version := c.valueVersion
	epoch := c.cacheEpoch
	resolver := c.resolver
	c.spawn(func(ctx context.Context) {
		found, _ := c.resolveRemote(ctx, resolver, unknown)
		c.update(func() {
			c.storeResolved(epoch, found)
			if c.closed || version != c.valueVersion {
				return
			}
			before := c.value
			c.assertValue(true)
			if !before.Equal(c.value) {
				c.reflagFiltered()
				c.buildSelected()
			}
		})
	})
}

// buildSelected projects the value onto items: cached data or placeholders
// now, resolved data once the resolver answers.
func (c *Controller) buildSelected() {
	ids := c.value.IDs()
	c.selected = c.placeholders(ids, nil)
	if len(ids) == 0 || c.resolver == nil {
		return
	}
	var missing []OptionID
	for _, id := range ids {
		if _, ok := c.lookup(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	version := c.valueVersion
	epoch := c.cacheEpoch
	resolver := c.resolver
	c.spawn(func(ctx context.Context) {
		found, _ := c.resolveRemote(ctx, resolver, missing)
		c.update(func() {
			c.storeResolved(epoch, found)
			if c.closed || version != c.valueVersion {
				return
			}
			resolved := indexOptions(found)
			if c.params.StrictValue {
				known := make([]OptionID, 0, len(ids))
				for _, id := range ids {
					if _, ok := resolved[id]; ok {
						known = append(known, id)
					} else if _, ok := c.lookup(id); ok {
						known = append(known, id)
					}
				}
				if len(known) != len(ids) {
					next := Multiple(known...).Shaped(c.params.Multiple)
					c.commitLocked(InternalValue(next))
					return
				}
			}
			c.selected = c.placeholders(ids, resolved)
		})
	})
}

// ResetChange clears Status.HasChanged.
func (c *Controller) ResetChange() {
	c.update(func() { c.status.HasChanged = false })
}

// ResetErrorMessage clears the recorded error.
func (c *Controller) ResetErrorMessage() {
	c.update(func() { c.clearError() })
}

// ClearCache drops the id cache and the remote window, then rebuilds. With
// forceReset the value, exclusion flag and search text are reset too.
func (c *Controller) ClearCache(forceReset bool) {
	c.update(func() {
		c.clearItemCache()
		c.clearError()
		c.status.HasChanged = false
		if forceReset {
			c.setValue(Single(NullID()).Shaped(c.params.Multiple))
			c.excluded = false
			c.search = ""
			c.resetFiltered()
		}
		c.rebuild(false)
		c.assertValue(false)
		c.reflagFiltered()
		c.buildSelected()
		c.runOptionWatchers()
	})
}
