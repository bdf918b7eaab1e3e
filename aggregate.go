package choices

// isPartial reports whether the universe is backed by the remote source.
func (c *Controller) isPartial() bool {
	if c.fetcher == nil {
		return false
	}
	return c.behavior.Operation != OperationForce || c.activeOrder == SourceDynamic
}

// hasFetchedAll reports whether every remote option is held locally.
func (c *Controller) hasFetchedAll() bool {
	if !c.isPartial() {
		return true
	}
	return c.totalDyn.CoveredBy(len(c.dyn))
}

// hasAllItems reports whether the filtered sequence is complete.
func (c *Controller) hasAllItems() bool {
	return c.totalFiltered.CoveredBy(len(c.filtered))
}

func (c *Controller) source(src Source) ([]Option, Total) {
	switch src {
	case SourceList:
		return c.list.options, Total(len(c.list.options))
	case SourceExternal:
		return c.external.options, Total(len(c.external.options))
	case SourceDynamic:
		return c.dyn, c.totalDyn
	default:
		return nil, 0
	}
}

// rebuild recomputes the universe and the visible window.
func (c *Controller) rebuild(keepFetched bool) {
	c.rebuildSources(keepFetched)
	c.refreshWindow()
}

// rebuildSources merges the sources into c.all according to the behavior.
// Without keepFetched the remote window is dropped.
func (c *Controller) rebuildSources(keepFetched bool) {
	if !keepFetched {
		// pages requested for the dropped window must not land in the new one
		c.requestID++
		c.status.Searching = false
		c.dyn = nil
		if c.isPartial() {
			c.totalAll = TotalUnknown
			c.totalDyn = TotalUnknown
		} else {
			c.totalDyn = 0
		}
	}
	c.rebuildGroups()

	var (
		all    []Option
		length Total
	)
	if c.behavior.Operation == OperationForce {
		c.activeOrder = 0
		for _, src := range c.behavior.Order {
			options, n := c.source(src)
			if !n.Exceeds(0) {
				continue
			}
			all = append(all, options...)
			length = n
			c.activeOrder = src
			break
		}
		c.dynStart = 0
	} else {
		offset := 0
		for _, src := range c.behavior.Order {
			options, n := c.source(src)
			if src == SourceDynamic {
				c.dynStart = offset
			} else {
				offset += len(options)
			}
			all = append(all, options...)
			if n.Exceeds(len(options)) {
				// the rest of this source is still streaming in
				break
			}
		}
		for _, src := range c.behavior.Order {
			_, n := c.source(src)
			length = length.Add(n)
		}
		c.activeOrder = SourceDynamic
	}

	c.all = all
	if keepFetched {
		c.totalAll = length
	} else if !c.isPartial() {
		c.totalAll = Total(len(all))
	}
	c.filtered = nil
	c.totalFiltered = TotalUnknown
	c.searchStart = 0
}

// rebuildGroups recomputes labels from declarations and sources. Nested
// shorthand labels win over declarations; bare group ids fall back to their
// string form.
func (c *Controller) rebuildGroups() {
	groups := make(GroupLabels, len(c.declared))
	for id, label := range c.declared {
		groups[id] = label
	}
	for _, src := range []expandedSource{c.list, c.external} {
		for id, label := range src.labels {
			groups[id] = label
		}
	}
	for _, src := range []expandedSource{c.list, c.external} {
		for _, id := range src.implicit {
			if _, ok := groups[id]; !ok {
				groups[id] = id.String()
			}
		}
	}
	for _, opt := range c.dyn {
		if opt.Group.IsNull() {
			continue
		}
		if _, ok := groups[opt.Group]; !ok {
			groups[opt.Group] = opt.Group.String()
		}
	}
	c.groups = groups
}

// sourcesChanged handles a wholesale replacement of a source.
func (c *Controller) sourcesChanged() {
	c.clearItemCache()
	c.rebuild(false)
	c.assertValue(false)
	c.buildSelected()
	c.runOptionWatchers()
}

// SetOptions replaces the static list source.
func (c *Controller) SetOptions(inputs ...OptionInput) {
	c.update(func() {
		c.list = expandSource(normalizeInputs(inputs))
		c.sourcesChanged()
	})
}

// SetExternalOptions replaces the caller-owned source.
func (c *Controller) SetExternalOptions(inputs ...OptionInput) {
	c.update(func() {
		c.external = expandSource(normalizeInputs(inputs))
		c.sourcesChanged()
	})
}

// SetFetcher replaces the remote source. Pass nil to detach it.
func (c *Controller) SetFetcher(fetcher Fetcher) {
	c.update(func() {
		c.fetcher = fetcher
		c.activeOrder = SourceDynamic
		c.sourcesChanged()
	})
}

// SetResolver replaces the by-id lookup.
func (c *Controller) SetResolver(resolver Resolver) {
	c.update(func() {
		c.resolver = resolver
	})
}

// ChangeGroups replaces the declared group labels.
func (c *Controller) ChangeGroups(groups ...Group) {
	c.update(func() {
		c.declared = make(GroupLabels, len(groups))
		for _, group := range groups {
			c.declared[group.ID] = group.Text
		}
		c.rebuildGroups()
		for i, item := range c.filtered {
			if item.IsGroup {
				c.filtered[i].Text = c.groups[item.ID]
			}
		}
		c.refreshWindow()
	})
}

// ChangeTexts merges overrides into this controller's wording.
func (c *Controller) ChangeTexts(overrides Texts) {
	c.update(func() {
		c.texts = c.texts.Merge(overrides)
	})
}
