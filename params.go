package choices

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HideFilter controls the search box visibility.
type HideFilter string

const (
	HideFilterNever  HideFilter = "false"
	HideFilterAlways HideFilter = "true"
	// HideFilterAuto hides the box for small, fully known single-select sets.
	HideFilterAuto HideFilter = "auto"
)

// UnmarshalYAML accepts booleans and the "auto" keyword.
func (h *HideFilter) UnmarshalYAML(node *yaml.Node) error {
	value := strings.ToLower(strings.TrimSpace(node.Value))
	switch value {
	case "auto":
		*h = HideFilterAuto
		return nil
	case "":
		*h = HideFilterNever
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("choices: hideFilter must be true, false or auto (line %d)", node.Line)
	}
	if b {
		*h = HideFilterAlways
	} else {
		*h = HideFilterNever
	}
	return nil
}

// SelectionOverflow is a rendering hint for long selections.
type SelectionOverflow string

const (
	SelectionOverflowCollapsed SelectionOverflow = "collapsed"
	SelectionOverflowMultiline SelectionOverflow = "multiline"
)

// SearchMode selects how search text is matched against option text.
type SearchMode string

const (
	// SearchModeGlob treats "*" as a wildcard and everything else literally.
	SearchModeGlob SearchMode = "glob"
	// SearchModeFuzzy matches characters in order with gaps allowed.
	SearchModeFuzzy SearchMode = "fuzzy"
)

// Params is the controller configuration. It is fixed once the controller
// is created.
type Params struct {
	Multiple            bool              `yaml:"multiple"`
	Placeholder         string            `yaml:"placeholder"`
	HideFilter          HideFilter        `yaml:"hideFilter"`
	AllowRevert         *bool             `yaml:"allowRevert"`
	AllowClearSelection bool              `yaml:"allowClearSelection"`
	PageSize            int               `yaml:"pageSize"`
	AutoSelect          *bool             `yaml:"autoSelect"`
	AutoDisabled        *bool             `yaml:"autoDisabled"`
	StrictValue         bool              `yaml:"strictValue"`
	SelectionOverflow   SelectionOverflow `yaml:"selectionOverflow"`
	OptionBehavior      string            `yaml:"optionBehavior"`
	SearchMode          SearchMode        `yaml:"searchMode"`
	KeepOpenWithOthers  bool              `yaml:"keepOpenWithOthers"`
	ItemsPerPage        int               `yaml:"itemsPerPage"`
}

const (
	defaultPageSize     = 100
	defaultItemsPerPage = 10
)

// Bool returns a pointer to b, for the tri-state fields of Params.
func Bool(b bool) *bool { return &b }

func (p Params) withDefaults() Params {
	if p.HideFilter == "" {
		p.HideFilter = HideFilterNever
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.AutoSelect == nil {
		p.AutoSelect = Bool(true)
	}
	if p.AutoDisabled == nil {
		p.AutoDisabled = Bool(true)
	}
	if p.SelectionOverflow == "" {
		p.SelectionOverflow = SelectionOverflowCollapsed
	}
	if p.SearchMode == "" {
		p.SearchMode = SearchModeGlob
	}
	if p.ItemsPerPage <= 0 {
		p.ItemsPerPage = defaultItemsPerPage
	}
	return p
}

func (p Params) marginSize() int {
	return p.PageSize / 2
}

func (p Params) allowRevert() bool {
	return p.AllowRevert != nil && *p.AllowRevert
}

func (p Params) autoSelect() bool {
	return p.AutoSelect == nil || *p.AutoSelect
}

func (p Params) autoDisabled() bool {
	return p.AutoDisabled == nil || *p.AutoDisabled
}
