package choices

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type idKind uint8

const (
	idNull idKind = iota
	idString
	idNumber
)

// OptionID identifies an option. The zero value is the null id, which means
// "no selection" and never identifies a real option.
type OptionID struct {
	kind idKind
	str  string
	num  int64
}

// NullID returns the null id.
func NullID() OptionID { return OptionID{} }

// StringID builds a string id.
func StringID(s string) OptionID { return OptionID{kind: idString, str: s} }

// IntID builds a numeric id.
func IntID(n int64) OptionID { return OptionID{kind: idNumber, num: n} }

// IsNull reports whether id is the null id.
func (id OptionID) IsNull() bool { return id.kind == idNull }

// IsZero reports whether id is the null id. It lets encoders treat null
// ids as empty.
func (id OptionID) IsZero() bool { return id.kind == idNull }

// IsNumber reports whether id holds a number.
func (id OptionID) IsNumber() bool { return id.kind == idNumber }

// Int returns the numeric value when id is numeric.
func (id OptionID) Int() (int64, bool) {
	return id.num, id.kind == idNumber
}

// String renders the id the way a placeholder text shows it.
func (id OptionID) String() string {
	switch id.kind {
	case idString:
		return id.str
	case idNumber:
		return strconv.FormatInt(id.num, 10)
	default:
		return "null"
	}
}

// key is a kind-qualified representation used for request coalescing.
func (id OptionID) key() string {
	switch id.kind {
	case idString:
		return "s:" + id.str
	case idNumber:
		return "n:" + strconv.FormatInt(id.num, 10)
	default:
		return "z:"
	}
}

// Value returns the id as a plain Go value (string, int64 or nil).
func (id OptionID) Value() any {
	switch id.kind {
	case idString:
		return id.str
	case idNumber:
		return id.num
	default:
		return nil
	}
}

// ParseID converts a loosely typed value into an OptionID.
func ParseID(v any) (OptionID, error) {
	switch value := v.(type) {
	case nil:
		return NullID(), nil
	case OptionID:
		return value, nil
	case string:
		return StringID(value), nil
	case int:
		return IntID(int64(value)), nil
	case int32:
		return IntID(int64(value)), nil
	case int64:
		return IntID(value), nil
	case uint:
		return IntID(int64(value)), nil
	case uint64:
		return IntID(int64(value)), nil
	case float64:
		if value != float64(int64(value)) {
			return NullID(), fmt.Errorf("choices: option id %v is not an integer", value)
		}
		return IntID(int64(value)), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return NullID(), fmt.Errorf("choices: option id %q: %w", value.String(), err)
		}
		return IntID(n), nil
	default:
		return NullID(), fmt.Errorf("choices: unsupported option id type %T", v)
	}
}

// MarshalJSON encodes the id as a JSON string, number or null.
func (id OptionID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idString:
		return json.Marshal(id.str)
	case idNumber:
		return []byte(strconv.FormatInt(id.num, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, integral numbers and null.
func (id *OptionID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*id = NullID()
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fmt.Errorf("choices: invalid option id %s", trimmed)
	}
	*id = IntID(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id OptionID) MarshalYAML() (any, error) {
	return id.Value(), nil
}

// UnmarshalYAML accepts scalar ids. Unquoted integers become numeric ids.
func (id *OptionID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("choices: option id must be a scalar (line %d)", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*id = NullID()
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("choices: option id %q: %w", node.Value, err)
		}
		*id = IntID(n)
	default:
		*id = StringID(node.Value)
	}
	return nil
}
