package choices

import (
	"regexp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// CompilePattern turns search text into a case-insensitive pattern. Every
// character is literal except "*", which matches any run of characters,
// line breaks included.
func CompilePattern(search string) *regexp.Regexp {
	parts := strings.Split(search, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("(?is)" + strings.Join(parts, ".*"))
}

// MatchOptions keeps the options whose text matches search, preserving
// their order.
func MatchOptions(options []Option, search string, mode SearchMode) []Option {
	if search == "" {
		return options
	}
	if mode == SearchModeFuzzy {
		return fuzzyMatch(options, search)
	}
	pattern := CompilePattern(search)
	out := make([]Option, 0, len(options))
	for _, opt := range options {
		if pattern.MatchString(opt.Text) {
			out = append(out, opt)
		}
	}
	return out
}

func fuzzyMatch(options []Option, search string) []Option {
	texts := make([]string, len(options))
	for i, opt := range options {
		texts[i] = opt.Text
	}
	matches := fuzzy.Find(search, texts)
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	// group bands need source order, not score order
	slices.Sort(indexes)
	out := make([]Option, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, options[idx])
	}
	return out
}

// GroupLabels maps group ids to display labels.
type GroupLabels map[OptionID]string

// BuildGroupBand interleaves a header before each option whose group differs
// from the group of the item before it. preceding is the item the band
// continues from, or nil. Ungrouped options get no header. A group without
// a label yields a header with empty text.
func BuildGroupBand(items []OptionItem, preceding *OptionItem, labels GroupLabels) []OptionItem {
	previous := NullID()
	if preceding != nil {
		previous = preceding.Group
		if preceding.IsGroup {
			previous = preceding.ID
		}
	}
	out := make([]OptionItem, 0, len(items))
	for _, item := range items {
		if item.Group != previous {
			if !item.Group.IsNull() {
				out = append(out, groupHeader(item.Group, labels[item.Group]))
			}
			previous = item.Group
		}
		out = append(out, item)
	}
	return out
}

func groupHeader(id OptionID, label string) OptionItem {
	return OptionItem{
		Option:  Option{ID: id, Text: label},
		IsGroup: true,
	}
}

// CountGroupHeaders counts header items.
func CountGroupHeaders(items []OptionItem) int {
	n := 0
	for _, item := range items {
		if item.IsGroup {
			n++
		}
	}
	return n
}
