package choices

import (
	"maps"
	"strings"
	"sync"
)

// TextKey names a user-facing message.
type TextKey string

const (
	TextNoFetchMethod                TextKey = "noFetchMethod"
	TextSearchPlaceholder            TextKey = "searchPlaceholder"
	TextSearching                    TextKey = "searching"
	TextCannotSelectAllSearchedItems TextKey = "cannotSelectAllSearchedItems"
	TextCannotSelectAllRevertItems   TextKey = "cannotSelectAllRevertItems"
	TextSelectAll                    TextKey = "selectAll"
	TextExcludeResult                TextKey = "excludeResult"
	TextReverseSelection             TextKey = "reverseSelection"
	TextNoData                       TextKey = "noData"
	TextNoResult                     TextKey = "noResult"
	TextClearSelection               TextKey = "clearSelection"
	TextClearSelections              TextKey = "clearSelections"
	TextWrongFormattedData           TextKey = "wrongFormattedData"
	TextMoreSelectedItem             TextKey = "moreSelectedItem"
	TextMoreSelectedItems            TextKey = "moreSelectedItems"
	TextUnknownPropertyValue         TextKey = "unknownPropertyValue"
)

// Texts maps message keys to their wording.
type Texts map[TextKey]string

var (
	defaultTextsMu sync.RWMutex
	defaultTexts   = Texts{
		TextNoFetchMethod:                "No fetch method configured: remote options cannot be loaded.",
		TextSearchPlaceholder:            "Search",
		TextSearching:                    "Searching",
		TextCannotSelectAllSearchedItems: "Cannot select all: the search matches too many items.",
		TextCannotSelectAllRevertItems:   "Cannot select all: some items are not loaded yet.",
		TextSelectAll:                    "Select all",
		TextExcludeResult:                "Invert selection",
		TextReverseSelection:             "Listed items are the ones not selected.",
		TextNoData:                       "No data",
		TextNoResult:                     "No results",
		TextClearSelection:               "Clear selection",
		TextClearSelections:              "Clear all selections",
		TextWrongFormattedData:           "The fetched data is not correctly formatted.",
		TextMoreSelectedItem:             "+1 other",
		TextMoreSelectedItems:            "+%s others",
		TextUnknownPropertyValue:         `property "%s" has incorrect values.`,
	}
)

// DefaultTexts returns a copy of the package-wide wording.
func DefaultTexts() Texts {
	defaultTextsMu.RLock()
	defer defaultTextsMu.RUnlock()
	return maps.Clone(defaultTexts)
}

// SetDefaultTexts merges overrides into the package-wide wording used by
// controllers created afterwards.
func SetDefaultTexts(overrides Texts) {
	defaultTextsMu.Lock()
	defer defaultTextsMu.Unlock()
	for key, value := range overrides {
		defaultTexts[key] = value
	}
}

// Merge returns a copy of t with overrides applied.
func (t Texts) Merge(overrides Texts) Texts {
	out := maps.Clone(t)
	if out == nil {
		out = Texts{}
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

// Format substitutes the first %s in the message for key.
func (t Texts) Format(key TextKey, arg string) string {
	return strings.Replace(t[key], "%s", arg, 1)
}
