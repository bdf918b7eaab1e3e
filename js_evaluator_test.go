//go:build js_eval

package choices

import (
	"strings"
	"testing"
)

func TestJSEvaluator(t *testing.T) {
	if !JSEvaluatorAvailable() {
		t.Fatalf("expected the js engine to be available")
	}
	registry := NewFunctionRegistry()
	_ = registry.Register("shout", func(args ...any) (any, error) {
		return strings.ToUpper(args[0].(string)), nil
	})

	format, err := NewExpressionFormatter(`({text: shout(text), title: args.hint})`,
		FormatWithEvaluator(NewJSEvaluator(JSWithFunctionRegistry(registry))),
		FormatWithArgs(map[string]any{"hint": "fruit"}),
	)
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	got := format(testItem())
	if got.Text != "APPLE" || got.Title != "fruit" {
		t.Fatalf("unexpected formatted item %+v", got)
	}
}
