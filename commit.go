package choices

// Field names a piece of controller state that Commit may change.
type Field int

const (
	FieldSearchText Field = iota + 1
	FieldOpen
	FieldOffsetItem
	FieldActiveItem
	FieldInternalValue
	FieldSelectionExcluded
	FieldDisabled
)

// Facet reports what a commit touched. Facets combine as a bit set.
type Facet uint16

const (
	FacetSearch Facet = 1 << iota
	FacetOpened
	FacetClosed
	FacetOffset
	FacetActiveItem
	FacetValue
	FacetExclusion
	FacetDisabled
	FacetEnabled
)

// Has reports whether every facet in other is set.
func (f Facet) Has(other Facet) bool {
	return other != 0 && f&other == other
}

var facetNames = []struct {
	facet Facet
	name  string
}{
	{FacetSearch, "search"},
	{FacetOpened, "opened"},
	{FacetClosed, "closed"},
	{FacetOffset, "offset"},
	{FacetActiveItem, "active_item"},
	{FacetValue, "value"},
	{FacetExclusion, "exclusion"},
	{FacetDisabled, "disabled"},
	{FacetEnabled, "enabled"},
}

func (f Facet) String() string {
	if f == 0 {
		return "none"
	}
	out := ""
	for _, entry := range facetNames {
		if f&entry.facet == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += entry.name
	}
	return out
}

// Mutation is a single field assignment passed to Commit.
type Mutation struct {
	field Field
	text  string
	flag  bool
	index int
	value Value
}

// Field returns the field the mutation assigns.
func (m Mutation) Field() Field { return m.field }

// SearchText sets the search text. Changing it resets the filtered list.
func SearchText(text string) Mutation {
	return Mutation{field: FieldSearchText, text: text}
}

// Open opens or closes the dropdown.
func Open(open bool) Mutation {
	return Mutation{field: FieldOpen, flag: open}
}

// OffsetItem moves the display window; negative offsets clamp to 0.
func OffsetItem(offset int) Mutation {
	return Mutation{field: FieldOffsetItem, index: max(offset, 0)}
}

// ActiveItem sets the highlighted index, -1 for none.
func ActiveItem(index int) Mutation {
	return Mutation{field: FieldActiveItem, index: index}
}

// InternalValue replaces the selection.
func InternalValue(value Value) Mutation {
	return Mutation{field: FieldInternalValue, value: value}
}

// SelectionExcluded switches between inclusion and exclusion mode.
func SelectionExcluded(excluded bool) Mutation {
	return Mutation{field: FieldSelectionExcluded, flag: excluded}
}

// Disabled disables or enables the control. Disabling closes it.
func Disabled(disabled bool) Mutation {
	return Mutation{field: FieldDisabled, flag: disabled}
}

// Commit applies mutations in order and returns the facets they touched.
// Assigning the current value is a no-op. Each touched facet runs its
// reactions before the next mutation is applied.
func (c *Controller) Commit(mutations ...Mutation) Facet {
	var touched Facet
	c.update(func() {
		for _, m := range mutations {
			if m.field == FieldDisabled {
				c.userDisable = m.flag
			}
			touched |= c.commitLocked(m)
		}
	})
	return touched
}

func (c *Controller) commitLocked(m Mutation) Facet {
	facet := c.assign(m)
	if facet == 0 {
		return 0
	}
	for _, r := range reactions[facet] {
		if !r.run(c) {
			break
		}
	}
	return facet
}

func (c *Controller) assign(m Mutation) Facet {
	switch m.field {
	case FieldSearchText:
		if c.search == m.text {
			return 0
		}
		c.search = m.text
		return FacetSearch
	case FieldOpen:
		if c.open == m.flag {
			return 0
		}
		c.open = m.flag
		if m.flag {
			return FacetOpened
		}
		return FacetClosed
	case FieldOffsetItem:
		if c.offsetItem == m.index {
			return 0
		}
		c.offsetItem = m.index
		return FacetOffset
	case FieldActiveItem:
		if c.activeItem == m.index {
			return 0
		}
		c.activeItem = m.index
		return FacetActiveItem
	case FieldInternalValue:
		if c.value.Equal(m.value) {
			return 0
		}
		c.setValue(m.value)
		return FacetValue
	case FieldSelectionExcluded:
		if c.excluded == m.flag {
			return 0
		}
		c.excluded = m.flag
		return FacetExclusion
	case FieldDisabled:
		if c.disabled == m.flag {
			return 0
		}
		c.disabled = m.flag
		if m.flag {
			return FacetDisabled
		}
		return FacetEnabled
	}
	return 0
}

// reaction is one step run after a facet changes. Returning false stops
// the remaining steps for that facet.
type reaction struct {
	name string
	run  func(*Controller) bool
}

var reactions map[Facet][]reaction

func init() {
	reactions = map[Facet][]reaction{
		FacetSearch: {
			{"reset_filtered", (*Controller).resetFiltered},
			{"refilter", (*Controller).refilter},
		},
		FacetOpened: {
			{"refuse_when_disabled", (*Controller).refuseWhenDisabled},
			{"reset_offset", (*Controller).resetOffset},
			{"reset_change", (*Controller).resetChangeReaction},
			{"refresh_window", (*Controller).refreshWindowReaction},
			{"claim_exclusivity", (*Controller).claimExclusivity},
			{"emit_opened", (*Controller).emitOpened},
		},
		FacetClosed: {
			{"release_exclusivity", (*Controller).releaseExclusivity},
			{"emit_closed", (*Controller).emitClosed},
		},
		FacetOffset: {
			{"refresh_window", (*Controller).refreshWindowReaction},
		},
		FacetValue: {
			{"assert_value", (*Controller).assertValueReaction},
			{"reflag_filtered", (*Controller).reflagReaction},
			{"build_selected", (*Controller).buildSelectedReaction},
		},
		FacetExclusion: {
			{"assert_value", (*Controller).assertValueReaction},
			{"reflag_filtered", (*Controller).reflagReaction},
			{"build_selected", (*Controller).buildSelectedReaction},
		},
		FacetDisabled: {
			{"force_close", (*Controller).forceClose},
		},
	}
}

// Reactions lists, in order, the reaction names run when facet changes.
func Reactions(facet Facet) []string {
	steps := reactions[facet]
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.name)
	}
	return names
}

func (c *Controller) resetFiltered() bool {
	// pages requested for the previous search no longer apply
	c.requestID++
	c.status.Searching = false
	c.offsetItem = 0
	c.activeItem = -1
	c.filtered = nil
	c.totalFiltered = TotalUnknown
	c.totalSearch = TotalUnknown
	c.searchStart = 0
	return true
}

func (c *Controller) refilter() bool {
	if c.search != "" {
		c.refreshWindow()
		return true
	}
	c.rebuild(true)
	return true
}

func (c *Controller) refuseWhenDisabled() bool {
	if !c.disabled {
		return true
	}
	c.open = false
	return false
}

func (c *Controller) resetOffset() bool {
	c.offsetItem = 0
	c.activeItem = -1
	return true
}

func (c *Controller) resetChangeReaction() bool {
	c.status.HasChanged = false
	return true
}

func (c *Controller) refreshWindowReaction() bool {
	c.refreshWindow()
	return true
}

func (c *Controller) claimExclusivity() bool {
	registry := c.cfg.registry
	hold := !c.params.KeepOpenWithOthers
	c.afterUnlock(func() { registry.Claim(c, hold) })
	return true
}

func (c *Controller) releaseExclusivity() bool {
	registry := c.cfg.registry
	c.afterUnlock(func() { registry.Release(c) })
	return true
}

func (c *Controller) assertValueReaction() bool {
	c.assertValue(false)
	return true
}

func (c *Controller) reflagReaction() bool {
	c.reflagFiltered()
	return true
}

func (c *Controller) buildSelectedReaction() bool {
	c.buildSelected()
	return true
}

func (c *Controller) forceClose() bool {
	c.commitLocked(Open(false))
	return true
}
