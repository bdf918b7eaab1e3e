package choices

import (
	"fmt"
	"strings"
)

// Source names one of the three option sources.
type Source byte

const (
	// SourceList is the static list supplied with SetOptions.
	SourceList Source = 'O'
	// SourceDynamic is the remote, lazily fetched list.
	SourceDynamic Source = 'D'
	// SourceExternal is the caller-owned list supplied with SetExternalOptions.
	SourceExternal Source = 'E'
)

// Operation is the merge operation applied to the sources.
type Operation string

const (
	// OperationSort concatenates the sources in order.
	OperationSort Operation = "sort"
	// OperationForce uses only the first source that has any entry.
	OperationForce Operation = "force"
)

// Behavior is the parsed form of Params.OptionBehavior.
type Behavior struct {
	Operation Operation
	Order     []Source
}

// DefaultBehavior is "sort-ODE".
func DefaultBehavior() Behavior {
	return Behavior{
		Operation: OperationSort,
		Order:     []Source{SourceList, SourceDynamic, SourceExternal},
	}
}

func (b Behavior) String() string {
	var sb strings.Builder
	sb.WriteString(string(b.Operation))
	sb.WriteByte('-')
	for _, src := range b.Order {
		sb.WriteByte(byte(src))
	}
	return sb.String()
}

// ParseOptionBehavior parses "<sort|force>-<ODE letters>". Missing letters
// are appended in default order and repeated letters keep their first
// position. On error the default behavior is returned with
// ErrInvalidOptionBehavior.
func ParseOptionBehavior(raw string) (Behavior, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBehavior(), nil
	}
	operation, order, found := strings.Cut(raw, "-")
	if !found {
		return DefaultBehavior(), fmt.Errorf("%w: %q", ErrInvalidOptionBehavior, raw)
	}
	op := Operation(operation)
	if op != OperationSort && op != OperationForce {
		return DefaultBehavior(), fmt.Errorf("%w: unknown operation %q", ErrInvalidOptionBehavior, operation)
	}
	if order == "" {
		return DefaultBehavior(), fmt.Errorf("%w: empty order", ErrInvalidOptionBehavior)
	}
	for _, r := range order {
		if r != 'O' && r != 'D' && r != 'E' {
			return DefaultBehavior(), fmt.Errorf("%w: unknown source %q", ErrInvalidOptionBehavior, r)
		}
	}

	behavior := Behavior{Operation: op}
	seen := map[Source]bool{}
	for _, r := range order + "ODE" {
		src := Source(r)
		if seen[src] {
			continue
		}
		seen[src] = true
		behavior.Order = append(behavior.Order, src)
	}
	return behavior, nil
}
