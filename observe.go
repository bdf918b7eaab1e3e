package choices

import (
	"maps"
	"slices"
	"strconv"
)

// Status reports the controller condition. It never drives logic.
type Status struct {
	Searching      bool
	ErrorMessage   string
	Err            error
	AreAllSelected bool
	HasChanged     bool
}

// Totals groups the known counts. Filtered includes group headers.
type Totals struct {
	All      Total
	Dynamic  Total
	Filtered Total
}

// Status returns a snapshot of the status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := c.status
	status.AreAllSelected = c.areAllSelected()
	return status
}

// FilteredOptions returns the visible sequence: held options matching the
// search, with group headers interleaved.
func (c *Controller) FilteredOptions() []OptionItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formatItems(slices.Clone(c.filtered), c.cfg.formatOption)
}

// SelectedOptions returns the items behind the value, in value order.
func (c *Controller) SelectedOptions() []OptionItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formatItems(slices.Clone(c.selected), c.cfg.formatSelection)
}

// SelectedOption returns the single selected item, if any.
func (c *Controller) SelectedOption() (OptionItem, bool) {
	selected := c.SelectedOptions()
	if len(selected) == 0 {
		return OptionItem{}, false
	}
	return selected[0], true
}

// Totals returns the known counts.
func (c *Controller) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Totals{All: c.totalAll, Dynamic: c.totalDyn, Filtered: c.totalFiltered}
}

// AllOptions returns the merged option universe held so far.
func (c *Controller) AllOptions() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.all)
}

// Groups returns the group labels.
func (c *Controller) Groups() GroupLabels {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.groups)
}

// Value returns the current selection.
func (c *Controller) Value() Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SelectionIsExcluded reports whether Value lists the unselected ids.
func (c *Controller) SelectionIsExcluded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.excluded
}

// IsOpen reports whether the dropdown is open.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Disabled reports whether the control is disabled, by the user or
// because there is nothing to choose.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// SearchText returns the current search text.
func (c *Controller) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// OffsetItem returns the first index of the display window.
func (c *Controller) OffsetItem() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsetItem
}

// ActiveItemIdx returns the keyboard-highlighted index, -1 when none.
func (c *Controller) ActiveItemIdx() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeItem
}

// HideFilter reports whether the search box should be hidden.
func (c *Controller) HideFilter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hideFilter
}

// Params returns the configuration with defaults applied.
func (c *Controller) Params() Params {
	return c.params
}

// Behavior returns the parsed merge policy.
func (c *Controller) Behavior() Behavior {
	return c.behavior
}

// Text returns the wording for key.
func (c *Controller) Text(key TextKey) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.texts[key]
}

// MoreSelectedText returns the overflow label for hidden selected items,
// or "" when nothing is hidden.
func (c *Controller) MoreSelectedText(hidden int) string {
	switch {
	case hidden <= 0:
		return ""
	case hidden == 1:
		return c.Text(TextMoreSelectedItem)
	default:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.texts.Format(TextMoreSelectedItems, strconv.Itoa(hidden))
	}
}
