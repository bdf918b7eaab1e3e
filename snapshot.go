package choices

import "slices"

// Snapshot is the persistable part of the selection.
type Snapshot struct {
	Value    []OptionID `json:"value" yaml:"value"`
	Multiple bool       `json:"multiple" yaml:"multiple"`
	Excluded bool       `json:"selectionIsExcluded,omitempty" yaml:"selectionIsExcluded,omitempty"`
	Search   string     `json:"search,omitempty" yaml:"search,omitempty"`
}

// Snapshot captures the current selection.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Value:    c.value.IDs(),
		Multiple: c.params.Multiple,
		Excluded: c.excluded,
		Search:   c.search,
	}
}

// Restore applies a snapshot. The value is reshaped to this controller and
// checked like any committed value. HasChanged is left untouched.
func (c *Controller) Restore(s Snapshot) Facet {
	var touched Facet
	c.update(func() {
		next := Multiple(slices.Clone(s.Value)...).Shaped(c.params.Multiple)
		before := c.value
		excluded := c.excluded
		c.excluded = s.Excluded && c.params.Multiple
		c.setValue(next)
		c.assertValue(false)
		if !before.Equal(c.value) {
			touched |= FacetValue
		}
		if excluded != c.excluded {
			touched |= FacetExclusion
		}
		if touched != 0 {
			c.reflagFiltered()
			c.buildSelected()
		}
		touched |= c.commitLocked(SearchText(s.Search))
	})
	return touched
}
