package choices

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the YAML document form of a controller definition.
type Config struct {
	Params   Params   `yaml:"params"`
	Value    any      `yaml:"value"`
	Excluded bool     `yaml:"selectionIsExcluded"`
	Disabled bool     `yaml:"disabled"`
	Options  []Option `yaml:"options"`
	External []Option `yaml:"externalOptions"`
	Groups   []Group  `yaml:"groups"`
	Texts    Texts    `yaml:"texts"`
}

// LoadConfig parses a YAML controller definition.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("choices: parse config: %w", err)
	}
	return cfg, nil
}

// InitialValue converts the loosely typed Value field to a Value shaped by
// Params.Multiple.
func (c Config) InitialValue() (Value, error) {
	switch raw := c.Value.(type) {
	case []any:
		ids := make([]OptionID, 0, len(raw))
		for _, entry := range raw {
			id, err := ParseID(entry)
			if err != nil {
				return Value{}, err
			}
			ids = append(ids, id)
		}
		return Multiple(ids...).Shaped(c.Params.Multiple), nil
	default:
		id, err := ParseID(raw)
		if err != nil {
			return Value{}, err
		}
		return Single(id).Shaped(c.Params.Multiple), nil
	}
}

// NewFromConfig builds a controller from a parsed definition. Extra options
// are applied after the ones derived from cfg.
func NewFromConfig(cfg Config, opts ...ControllerOption) (*Controller, error) {
	value, err := cfg.InitialValue()
	if err != nil {
		return nil, fmt.Errorf("choices: config value: %w", err)
	}
	base := []ControllerOption{
		WithValue(value),
		WithSelectionExcluded(cfg.Excluded),
		WithDisabled(cfg.Disabled),
		WithOptions(Inputs(cfg.Options...)...),
		WithExternalOptions(Inputs(cfg.External...)...),
		WithGroups(cfg.Groups...),
		WithTexts(cfg.Texts),
	}
	return New(cfg.Params, append(base, opts...)...), nil
}
