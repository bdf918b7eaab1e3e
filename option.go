package choices

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Option is a selectable entry. Options nested in Options are a group
// shorthand: the parent declares a group and is never itself selectable.
type Option struct {
	ID        OptionID `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Disabled  bool     `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Group     OptionID `json:"group,omitzero" yaml:"group,omitempty"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Style     string   `json:"style,omitempty" yaml:"style,omitempty"`
	ClassName string   `json:"className,omitempty" yaml:"className,omitempty"`
	Data      any      `json:"data,omitempty" yaml:"data,omitempty"`
	Options   []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionInput is what option sources accept: either a full Option or a bare
// Scalar id. Inputs are normalized to Option as soon as they are ingested.
type OptionInput interface {
	option() Option
}

// Scalar is the shorthand form of an option: its text is the id itself.
type Scalar struct {
	ID OptionID
}

func (s Scalar) option() Option {
	return Option{ID: s.ID, Text: s.ID.String()}
}

func (o Option) option() Option { return o }

// Strings builds scalar inputs from string ids.
func Strings(ids ...string) []OptionInput {
	out := make([]OptionInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, Scalar{ID: StringID(id)})
	}
	return out
}

// Ints builds scalar inputs from numeric ids.
func Ints(ids ...int64) []OptionInput {
	out := make([]OptionInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, Scalar{ID: IntID(id)})
	}
	return out
}

// Inputs lifts full options into inputs.
func Inputs(options ...Option) []OptionInput {
	out := make([]OptionInput, 0, len(options))
	for _, opt := range options {
		out = append(out, opt)
	}
	return out
}

func normalizeInputs(inputs []OptionInput) []Option {
	if len(inputs) == 0 {
		return nil
	}
	out := make([]Option, 0, len(inputs))
	for _, input := range inputs {
		if input == nil {
			continue
		}
		out = append(out, input.option())
	}
	return out
}

// OptionItem is the derived form of an option shown to the UI.
type OptionItem struct {
	Option
	Selected bool `json:"selected"`
	IsGroup  bool `json:"isGroup"`
}

// Group declares a display label for a group id.
type Group struct {
	ID   OptionID `json:"id" yaml:"id"`
	Text string   `json:"text" yaml:"text"`
}

// expandedSource is a flattened option source plus the group labels it
// implies.
type expandedSource struct {
	options []Option
	// labels from nested shorthand override any declared label.
	labels map[OptionID]string
	// implicit groups only get a label when none is known.
	implicit []OptionID
}

func expandSource(options []Option) expandedSource {
	src := expandedSource{}
	if len(options) == 0 {
		return src
	}
	src.options = make([]Option, 0, len(options))
	for _, opt := range options {
		if !opt.Group.IsNull() {
			src.implicit = append(src.implicit, opt.Group)
		}
		if opt.Options != nil {
			if src.labels == nil {
				src.labels = map[OptionID]string{}
			}
			src.labels[opt.ID] = opt.Text
			for _, child := range opt.Options {
				child.Group = opt.ID
				child.Options = nil
				src.options = append(src.options, child)
			}
			continue
		}
		src.options = append(src.options, opt)
	}
	return src
}

type optionAlias Option

// UnmarshalJSON accepts either an option object or a bare scalar id.
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var id OptionID
		if err := id.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*o = Scalar{ID: id}.option()
		return nil
	}
	var alias optionAlias
	if err := json.Unmarshal(trimmed, &alias); err != nil {
		return err
	}
	*o = Option(alias)
	return nil
}

// UnmarshalYAML accepts either a mapping or a bare scalar id.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id OptionID
		if err := id.UnmarshalYAML(node); err != nil {
			return err
		}
		*o = Scalar{ID: id}.option()
		return nil
	case yaml.MappingNode:
		var alias optionAlias
		if err := node.Decode(&alias); err != nil {
			return err
		}
		*o = Option(alias)
		return nil
	default:
		return fmt.Errorf("choices: option must be a scalar or a mapping (line %d)", node.Line)
	}
}
