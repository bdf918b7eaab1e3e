package choices

import (
	"fmt"
	"maps"
	"time"
)

// FormatFunc rewrites an item before it reaches the renderer. Group headers
// are never passed to it.
type FormatFunc func(OptionItem) OptionItem

// WithOptionFormatter sets the hook applied to filtered options and to
// GetItem/GetItems results.
func WithOptionFormatter(fn FormatFunc) ControllerOption {
	return func(cfg *controllerConfig) { cfg.formatOption = fn }
}

// WithSelectionFormatter sets the hook applied to selected options.
func WithSelectionFormatter(fn FormatFunc) ControllerOption {
	return func(cfg *controllerConfig) { cfg.formatSelection = fn }
}

func (c *Controller) formatItem(item OptionItem, fn FormatFunc) OptionItem {
	if fn == nil || item.IsGroup {
		return item
	}
	return fn(item)
}

// formatItems formats items in place.
func (c *Controller) formatItems(items []OptionItem, fn FormatFunc) []OptionItem {
	if fn == nil {
		return items
	}
	for i := range items {
		items[i] = c.formatItem(items[i], fn)
	}
	return items
}

// FormatOption applies the option hook to item.
func (c *Controller) FormatOption(item OptionItem) OptionItem {
	return c.formatItem(item, c.cfg.formatOption)
}

// FormatSelection applies the selection hook to item.
func (c *Controller) FormatSelection(item OptionItem) OptionItem {
	return c.formatItem(item, c.cfg.formatSelection)
}

// FormatterOption configures NewExpressionFormatter.
type FormatterOption func(*formatterConfig)

type formatterConfig struct {
	evaluator    Evaluator
	hasEvaluator bool
	cache        ProgramCache
	registry     *FunctionRegistry
	args         map[string]any
	logger       Logger
}

// FormatWithEvaluator selects the engine. Without it expr is used.
func FormatWithEvaluator(evaluator Evaluator) FormatterOption {
	return func(cfg *formatterConfig) {
		cfg.evaluator = evaluator
		cfg.hasEvaluator = true
	}
}

// FormatWithProgramCache shares compiled programs of the default engine.
func FormatWithProgramCache(cache ProgramCache) FormatterOption {
	return func(cfg *formatterConfig) { cfg.cache = cache }
}

// FormatWithFunctionRegistry exposes helpers to the default engine.
func FormatWithFunctionRegistry(registry *FunctionRegistry) FormatterOption {
	return func(cfg *formatterConfig) { cfg.registry = registry }
}

// FormatWithArgs binds args as the args variable.
func FormatWithArgs(args map[string]any) FormatterOption {
	return func(cfg *formatterConfig) { cfg.args = maps.Clone(args) }
}

// FormatWithLogger records every evaluation.
func FormatWithLogger(logger Logger) FormatterOption {
	return func(cfg *formatterConfig) { cfg.logger = logger }
}

// NewExpressionFormatter compiles expr into a FormatFunc. The expression
// sees the item fields as variables. A string result replaces the text; a
// map result patches text, title, icon, style, className and disabled.
// Items whose evaluation fails are returned unchanged.
func NewExpressionFormatter(expr string, opts ...FormatterOption) (FormatFunc, error) {
	cfg := formatterConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	evaluator := cfg.evaluator
	if evaluator == nil {
		if cfg.hasEvaluator {
			return nil, ErrNoEngine
		}
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.registry != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.registry))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}
	engine := evaluatorEngineName(evaluator)
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engine, expr, err)
	}

	return func(item OptionItem) OptionItem {
		start := time.Now()
		result, err := compiled.Evaluate(ItemEnv{Item: item, Args: cfg.args})
		cfg.logger.Log(LogEvent{
			Op:       "format",
			Engine:   engine,
			Expr:     expr,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			return item
		}
		return applyFormatResult(item, result)
	}, nil
}

func applyFormatResult(item OptionItem, result any) OptionItem {
	switch value := result.(type) {
	case nil:
		return item
	case string:
		item.Text = value
	case map[string]any:
		patchString(&item.Text, value, "text")
		patchString(&item.Title, value, "title")
		patchString(&item.Icon, value, "icon")
		patchString(&item.Style, value, "style")
		patchString(&item.ClassName, value, "className")
		if disabled, ok := value["disabled"].(bool); ok {
			item.Disabled = disabled
		}
	default:
		item.Text = fmt.Sprint(value)
	}
	return item
}

func patchString(dst *string, patch map[string]any, key string) {
	raw, ok := patch[key]
	if !ok || raw == nil {
		return
	}
	if s, ok := raw.(string); ok {
		*dst = s
		return
	}
	*dst = fmt.Sprint(raw)
}
