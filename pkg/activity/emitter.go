package activity

import (
	"context"
	"slices"
	"strings"
)

// DefaultChannel is stamped on events that carry no channel.
const DefaultChannel = "choices"

// Config holds emitter defaults.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter sends events to hooks, filling in the default channel.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := CompactHooks(hooks)
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
	}
}

// Enabled reports whether Emit would reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit fills the default channel and delivers the event to the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

// CompactHooks copies hooks without nil entries. It returns nil when none
// remain.
func CompactHooks(hooks Hooks) Hooks {
	kept := slices.DeleteFunc(slices.Clone(hooks), func(hook ActivityHook) bool {
		return hook == nil
	})
	if len(kept) == 0 {
		return nil
	}
	return kept
}
