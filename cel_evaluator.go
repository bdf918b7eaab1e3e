package choices

import (
	"fmt"
	"reflect"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache shares compiled programs through cache.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes the registry through call(name, args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator returns a format engine backed by cel-go. Item variables
// are declared with fixed types, so programs are checked at compile time.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) engineName() string { return "cel" }

func (e *celEvaluator) Evaluate(env ItemEnv, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, env)
}

func (e *celEvaluator) Compile(expression string) (CompiledExpression, error) {
	if expression == "" {
		return nil, wrapEngineError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celCompiled{evaluator: e, program: program, expression: expression}, nil
}

func (e *celEvaluator) run(program celgo.Program, expression string, env ItemEnv) (any, error) {
	out, _, err := program.Eval(env.variables())
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	return celNative(out)
}

// celNative converts maps to map[string]any so formatters can patch items
// the same way for every engine.
func celNative(out ref.Val) (any, error) {
	if _, ok := out.(traits.Mapper); ok {
		native, err := out.ConvertToNative(reflect.TypeOf(map[string]any{}))
		if err != nil {
			return nil, wrapEngineError("cel", err)
		}
		return native, nil
	}
	if out == types.NullValue {
		return nil, nil
	}
	return out.Value(), nil
}

func (e *celEvaluator) loadOrCompile(expression string) (celgo.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapEngineError("cel", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("id", celgo.DynType),
		celgo.Variable("text", celgo.StringType),
		celgo.Variable("title", celgo.StringType),
		celgo.Variable("group", celgo.DynType),
		celgo.Variable("selected", celgo.BoolType),
		celgo.Variable("disabled", celgo.BoolType),
		celgo.Variable("icon", celgo.StringType),
		celgo.Variable("style", celgo.StringType),
		celgo.Variable("className", celgo.StringType),
		celgo.Variable("data", celgo.DynType),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("now", celgo.TimestampType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(e.callBinding()),
			),
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType},
				celgo.DynType,
				celgo.UnaryBinding(func(name ref.Val) ref.Val {
					return e.callBinding()(name, types.DefaultTypeAdapter.NativeToValue([]any{}))
				}),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) callBinding() functions.BinaryOp {
	return func(name, arguments ref.Val) ref.Val {
		fn, ok := name.Value().(string)
		if !ok {
			return types.NewErr("choices: call name must be a string")
		}
		var args []any
		if lister, ok := arguments.(traits.Lister); ok {
			native, err := lister.ConvertToNative(reflect.TypeOf([]any{}))
			if err != nil {
				return types.NewErr("choices: call arguments: %v", err)
			}
			args, _ = native.([]any)
		}
		result, err := e.registry.Call(fn, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celCompiled struct {
	evaluator  *celEvaluator
	program    celgo.Program
	expression string
}

func (c *celCompiled) Evaluate(env ItemEnv) (any, error) {
	if c.evaluator == nil || c.program == nil {
		return nil, wrapEngineError("cel", ErrNoEngine)
	}
	return c.evaluator.run(c.program, c.expression, env)
}
