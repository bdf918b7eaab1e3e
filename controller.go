package choices

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-choices/pkg/activity"
	"github.com/goliatone/go-choices/pkg/cache"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ControllerOption configures a Controller.
type ControllerOption func(*controllerConfig)

type controllerConfig struct {
	ctx              context.Context
	id               string
	logger           Logger
	registry         *Registry
	activityHooks    activity.Hooks
	activityChannel  string
	activityIdentity activity.Identity
	itemCache        cache.Store[OptionID, Option]
	formatOption     FormatFunc
	formatSelection  FormatFunc
	texts            Texts

	value    Value
	hasValue bool
	excluded bool
	disabled bool
	list     []OptionInput
	external []OptionInput
	groups   []Group
	fetcher  Fetcher
	resolver Resolver
}

func applyControllerOptions(opts []ControllerOption) controllerConfig {
	cfg := controllerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.itemCache == nil {
		cfg.itemCache = cache.NewMemory[OptionID, Option]()
	}
	return cfg
}

// WithContext sets the parent context of collaborator calls. Close cancels
// the derived context.
func WithContext(ctx context.Context) ControllerOption {
	return func(cfg *controllerConfig) { cfg.ctx = ctx }
}

// WithID sets the controller id reported in logs and activity events.
func WithID(id string) ControllerOption {
	return func(cfg *controllerConfig) { cfg.id = id }
}

// WithRegistry sets the exclusivity registry. DefaultRegistry is used
// otherwise.
func WithRegistry(registry *Registry) ControllerOption {
	return func(cfg *controllerConfig) { cfg.registry = registry }
}

// WithItemCache replaces the in-memory id cache.
func WithItemCache(store cache.Store[OptionID, Option]) ControllerOption {
	return func(cfg *controllerConfig) { cfg.itemCache = store }
}

// WithValue sets the initial value.
func WithValue(value Value) ControllerOption {
	return func(cfg *controllerConfig) {
		cfg.value = value
		cfg.hasValue = true
	}
}

// WithSelectionExcluded sets the initial exclusion flag.
func WithSelectionExcluded(excluded bool) ControllerOption {
	return func(cfg *controllerConfig) { cfg.excluded = excluded }
}

// WithDisabled sets the initial disabled state.
func WithDisabled(disabled bool) ControllerOption {
	return func(cfg *controllerConfig) { cfg.disabled = disabled }
}

// WithOptions sets the static list source.
func WithOptions(inputs ...OptionInput) ControllerOption {
	return func(cfg *controllerConfig) { cfg.list = inputs }
}

// WithExternalOptions sets the caller-owned source.
func WithExternalOptions(inputs ...OptionInput) ControllerOption {
	return func(cfg *controllerConfig) { cfg.external = inputs }
}

// WithGroups declares group labels.
func WithGroups(groups ...Group) ControllerOption {
	return func(cfg *controllerConfig) { cfg.groups = append(cfg.groups, groups...) }
}

// WithFetcher sets the remote page source.
func WithFetcher(fetcher Fetcher) ControllerOption {
	return func(cfg *controllerConfig) { cfg.fetcher = fetcher }
}

// WithResolver sets the by-id lookup.
func WithResolver(resolver Resolver) ControllerOption {
	return func(cfg *controllerConfig) { cfg.resolver = resolver }
}

// WithTexts overrides message wording for this controller.
func WithTexts(texts Texts) ControllerOption {
	return func(cfg *controllerConfig) { cfg.texts = cfg.texts.Merge(texts) }
}

// Controller is the state machine behind a select control. It is safe for
// concurrent use; collaborator calls run in background goroutines and their
// results are applied under the controller lock.
type Controller struct {
	id       string
	params   Params
	behavior Behavior
	cfg      controllerConfig
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	emitter *activity.Emitter

	texts    Texts
	fetcher  Fetcher
	resolver Resolver

	list     expandedSource
	external expandedSource
	declared GroupLabels
	groups   GroupLabels

	dyn           []Option
	totalDyn      Total
	all           []Option
	totalAll      Total
	activeOrder   Source
	dynStart      int
	searchStart   int
	totalSearch   Total
	filtered      []OptionItem
	totalFiltered Total

	value       Value
	excluded    bool
	open        bool
	disabled    bool
	userDisable bool
	hideFilter  bool
	search      string
	offsetItem  int
	activeItem  int
	status      Status
	selected    []OptionItem

	items        cache.Store[OptionID, Option]
	cacheEpoch   uint64
	requestID    uint64
	valueVersion uint64
	batching     bool
	closed       bool

	flights singleflight.Group
	wg      sync.WaitGroup
	effects []func()
}

// New builds a controller. Sources, groups and collaborators supplied via
// opts are ingested before the first rebuild.
func New(params Params, opts ...ControllerOption) *Controller {
	cfg := applyControllerOptions(opts)
	params = params.withDefaults()
	ctx, cancel := context.WithCancel(cfg.ctx)

	c := &Controller{
		id:          cfg.id,
		params:      params,
		cfg:         cfg,
		ctx:         ctx,
		cancel:      cancel,
		texts:       DefaultTexts().Merge(cfg.texts),
		fetcher:     cfg.fetcher,
		resolver:    cfg.resolver,
		list:        expandSource(normalizeInputs(cfg.list)),
		external:    expandSource(normalizeInputs(cfg.external)),
		declared:    GroupLabels{},
		groups:      GroupLabels{},
		totalDyn:    TotalUnknown,
		totalAll:    TotalUnknown,
		totalSearch: TotalUnknown,
		activeOrder: SourceDynamic,
		activeItem:  -1,
		items:       cfg.itemCache,
		disabled:    cfg.disabled,
		userDisable: cfg.disabled,
		excluded:    cfg.excluded,
		emitter: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled: true,
			Channel: cfg.activityChannel,
		}),
	}
	for _, group := range cfg.groups {
		c.declared[group.ID] = group.Text
	}

	behavior, err := ParseOptionBehavior(params.OptionBehavior)
	c.behavior = behavior
	if err != nil {
		c.setError(ErrInvalidOptionBehavior, c.texts.Format(TextUnknownPropertyValue, "optionBehavior"), err)
	}

	value := cfg.value
	if !cfg.hasValue {
		value = Single(NullID())
	}
	c.value = value.Shaped(params.Multiple)
	c.hideFilter = params.HideFilter == HideFilterAlways

	c.update(func() {
		c.checkHideFilter()
		c.rebuild(false)
		c.assertValue(false)
		c.buildSelected()
		c.runOptionWatchers()
	})
	return c
}

// ID returns the controller id.
func (c *Controller) ID() string { return c.id }

// update runs fn under the lock, then runs the effects fn queued.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	effects := c.effects
	c.effects = nil
	c.mu.Unlock()
	for _, effect := range effects {
		effect()
	}
}

// afterUnlock queues fn to run once the lock is released.
func (c *Controller) afterUnlock(fn func()) {
	c.effects = append(c.effects, fn)
}

// spawn runs fn in a tracked goroutine. Must be called with the lock held.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	if c.closed {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}

// Wait blocks until every background fetch and resolution has settled,
// including work started by those results.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close releases the exclusivity claim and cancels pending collaborator
// calls. Results arriving afterwards are dropped.
func (c *Controller) Close() {
	c.update(func() {
		if c.closed {
			return
		}
		c.commitLocked(Open(false))
		c.closed = true
		c.afterUnlock(func() { c.cfg.registry.Release(c) })
	})
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) setError(kind error, message string, cause error) {
	c.status.ErrorMessage = message
	c.status.Err = &StatusError{Kind: kind, Message: message, Err: cause}
}

func (c *Controller) clearError() {
	c.status.ErrorMessage = ""
	c.status.Err = nil
}

func (c *Controller) errorMessageFor(err error) (error, string) {
	switch {
	case errors.Is(err, ErrMissingFetcher):
		return ErrMissingFetcher, c.texts[TextNoFetchMethod]
	case errors.Is(err, ErrMalformedFetchResult):
		return ErrMalformedFetchResult, c.texts[TextWrongFormattedData]
	default:
		return ErrFetchRejected, err.Error()
	}
}

func (c *Controller) log(event LogEvent) {
	event.Controller = c.id
	c.cfg.logger.Log(event)
}
