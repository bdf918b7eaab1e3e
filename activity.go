package choices

import "github.com/goliatone/go-choices/pkg/activity"

// WithActivityHooks sends selection lifecycle events to hooks. Nil hooks
// are dropped.
func WithActivityHooks(hooks activity.Hooks) ControllerOption {
	kept := activity.CompactHooks(hooks)
	return func(cfg *controllerConfig) { cfg.activityHooks = kept }
}

// WithActivityChannel sets the channel stamped on emitted events.
func WithActivityChannel(channel string) ControllerOption {
	return func(cfg *controllerConfig) { cfg.activityChannel = channel }
}

// WithActivityIdentity sets who is reported as acting on the control.
func WithActivityIdentity(identity activity.Identity) ControllerOption {
	return func(cfg *controllerConfig) { cfg.activityIdentity = identity }
}

func (c *Controller) eventInput() activity.SelectionEventInput {
	return activity.SelectionEventInput{
		Identity:     c.cfg.activityIdentity,
		ControllerID: c.id,
		Value:        c.value.strings(),
		Excluded:     c.excluded,
		Multiple:     c.params.Multiple,
		Search:       c.search,
	}
}

// emit delivers event once the lock is released.
func (c *Controller) emit(event activity.Event) {
	if !c.emitter.Enabled() {
		return
	}
	emitter := c.emitter
	ctx := c.ctx
	c.afterUnlock(func() {
		if err := emitter.Emit(ctx, event); err != nil {
			c.log(LogEvent{Op: "activity", Err: err})
		}
	})
}

func (c *Controller) emitSelectionChanged() {
	c.emit(activity.BuildSelectionChangedEvent(c.eventInput()))
}

func (c *Controller) emitAllToggled(selected bool) {
	c.emit(activity.BuildAllToggledEvent(c.eventInput(), selected))
}

func (c *Controller) emitOpened() bool {
	c.emit(activity.BuildOpenedEvent(c.eventInput()))
	return true
}

func (c *Controller) emitClosed() bool {
	c.emit(activity.BuildClosedEvent(c.eventInput()))
	return true
}
