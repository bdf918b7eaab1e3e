package choices

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFetcher is recorded when a window must be fetched but no
	// Fetcher is configured.
	ErrMissingFetcher = errors.New("choices: fetcher not configured")
	// ErrMalformedFetchResult is recorded when a Fetcher returns no page.
	ErrMalformedFetchResult = errors.New("choices: malformed fetch result")
	// ErrInvalidOptionBehavior is recorded when Params.OptionBehavior cannot
	// be parsed.
	ErrInvalidOptionBehavior = errors.New("choices: invalid option behavior")
	// ErrFetchRejected wraps failures returned by a Fetcher.
	ErrFetchRejected = errors.New("choices: fetch rejected")
	// ErrSearchTooLargeForSelectAll is recorded when select-all is requested
	// while a search is active over an incomplete universe.
	ErrSearchTooLargeForSelectAll = errors.New("choices: cannot select all searched items")
	// ErrRevertUnavailable is recorded when select-all would need exclusion
	// mode but AllowRevert is not enabled.
	ErrRevertUnavailable = errors.New("choices: cannot revert selection")
	// ErrNoEngine is returned when an expression formatter has no engine.
	ErrNoEngine = errors.New("choices: expression engine not configured")
)

// StatusError pairs a sentinel kind with the user-facing message recorded in
// Status.ErrorMessage.
type StatusError struct {
	Kind    error
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StatusError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// EvaluationError captures engine metadata alongside a failed format
// expression.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("choices: %s engine %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "choices:") {
		return err
	}
	return fmt.Errorf("choices: %s engine: %w", engine, err)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}
