package activity

import (
	"strings"
	"time"
)

const (
	VerbSelectionChanged    = "selection.changed"
	VerbSelectionAllToggled = "selection.all_toggled"
	VerbSelectOpened        = "select.opened"
	VerbSelectClosed        = "select.closed"

	// ObjectTypeSelect is the object type of every selection event.
	ObjectTypeSelect = "select"
)

// Identity says who acted. All fields are optional.
type Identity struct {
	ActorID  string
	UserID   string
	TenantID string
}

// SelectionEventInput carries the controller state reported by an event.
type SelectionEventInput struct {
	Identity
	ControllerID string
	Channel      string
	Value        []string
	Excluded     bool
	Multiple     bool
	Search       string
	Metadata     map[string]any
	OccurredAt   time.Time
}

// BuildSelectionChangedEvent reports a value change made by selection.
func BuildSelectionChangedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSelectionChanged, input, true)
}

// BuildAllToggledEvent reports a select-all toggle. selected is the state
// every visible item was switched to.
func BuildAllToggledEvent(input SelectionEventInput, selected bool) Event {
	event := buildSelectionEvent(VerbSelectionAllToggled, input, true)
	event.Metadata = ensureMetadata(event.Metadata)
	event.Metadata["selected"] = selected
	return event
}

// BuildOpenedEvent records the dropdown opening.
func BuildOpenedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSelectOpened, input, false)
}

// BuildClosedEvent records the dropdown closing.
func BuildClosedEvent(input SelectionEventInput) Event {
	return buildSelectionEvent(VerbSelectClosed, input, false)
}

func buildSelectionEvent(verb string, input SelectionEventInput, withValue bool) Event {
	metadata := cloneMap(input.Metadata)
	if withValue {
		metadata = ensureMetadata(metadata)
		metadata["value"] = append([]string{}, input.Value...)
		metadata["multiple"] = input.Multiple
		if input.Excluded {
			metadata["excluded"] = true
		}
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		metadata = ensureMetadata(metadata)
		metadata["search"] = search
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeSelect,
		ObjectID:   strings.TrimSpace(input.ControllerID),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
