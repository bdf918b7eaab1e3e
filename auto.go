package choices

// runOptionWatchers re-runs the behaviors that depend on the option
// universe. Called whenever the universe or its total changes.
func (c *Controller) runOptionWatchers() {
	c.checkAutoSelect()
	c.checkAutoDisabled()
	c.checkHideFilter()
}

// checkAutoSelect selects the first enabled option of a single-select
// control that has no value and cannot be cleared. It waits while the
// control is open.
func (c *Controller) checkAutoSelect() {
	if !c.params.autoSelect() || c.params.AllowClearSelection || c.params.Multiple {
		return
	}
	if !c.value.ID().IsNull() || c.open {
		return
	}
	for _, opt := range c.all {
		if opt.Disabled {
			continue
		}
		c.selectLocked(opt.ID, SelectOn, true)
		return
	}
}

// checkAutoDisabled disables a fully known control that offers no real
// choice. A control disabled by the caller is left alone.
func (c *Controller) checkAutoDisabled() {
	if c.userDisable || c.isPartial() || !c.params.autoDisabled() || !c.hasFetchedAll() {
		return
	}
	enabled := 0
	for _, opt := range c.all {
		if !opt.Disabled {
			enabled++
		}
	}
	onlyOne := enabled == 1 && c.value.Len() > 0 && !c.params.AllowClearSelection
	if enabled == 0 || onlyOne {
		c.commitLocked(Open(false))
		c.commitLocked(Disabled(true))
		return
	}
	c.commitLocked(Disabled(false))
}

func (c *Controller) checkHideFilter() {
	if c.params.HideFilter != HideFilterAuto {
		return
	}
	if c.params.Multiple || c.isPartial() {
		c.hideFilter = false
		return
	}
	c.hideFilter = c.totalAll.Known() && int(c.totalAll) <= c.params.ItemsPerPage
}
