package choices

import "time"

// Evaluator runs format expressions against an item.
type Evaluator interface {
	Evaluate(env ItemEnv, expr string) (any, error)
	Compile(expr string) (CompiledExpression, error)
}

// CompiledExpression is a reusable expression program.
type CompiledExpression interface {
	Evaluate(env ItemEnv) (any, error)
}

// ProgramCache stores compiled programs keyed by expression text.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// ItemEnv is what an expression sees: the item fields as top level
// variables, plus args and now.
type ItemEnv struct {
	Item OptionItem
	Args map[string]any
	Now  *time.Time
}

func (env ItemEnv) withDefaults() ItemEnv {
	if env.Now == nil {
		now := time.Now()
		env.Now = &now
	}
	if env.Args == nil {
		env.Args = map[string]any{}
	}
	return env
}

// itemVariables lists the variable names bound from the item.
var itemVariables = []string{
	"id", "text", "title", "group", "selected", "disabled",
	"icon", "style", "className", "data",
}

func (env ItemEnv) variables() map[string]any {
	env = env.withDefaults()
	item := env.Item
	return map[string]any{
		"id":        item.ID.Value(),
		"text":      item.Text,
		"title":     item.Title,
		"group":     item.Group.Value(),
		"selected":  item.Selected,
		"disabled":  item.Disabled,
		"icon":      item.Icon,
		"style":     item.Style,
		"className": item.ClassName,
		"data":      item.Data,
		"args":      env.Args,
		"now":       *env.Now,
	}
}

type namedEngine interface {
	engineName() string
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(namedEngine); ok {
		return named.engineName()
	}
	return "custom"
}
