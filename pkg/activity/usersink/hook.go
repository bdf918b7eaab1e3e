package usersink

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-choices/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards selection events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// Verbs limits forwarding to the listed verbs. Empty forwards all.
	Verbs []string
}

// Notify records the event. Identity fields that are not UUIDs map to
// uuid.Nil.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if len(h.Verbs) > 0 && !slices.Contains(h.Verbs, normalized.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	})
}

// recordData copies the metadata and keeps non-UUID identities, which the
// record fields would otherwise lose.
func recordData(event activity.Event) map[string]any {
	data := maps.Clone(event.Metadata)
	for key, raw := range map[string]string{
		"actor":  event.ActorID,
		"user":   event.UserID,
		"tenant": event.TenantID,
	} {
		if raw == "" || parseUUID(raw) != uuid.Nil {
			continue
		}
		if data == nil {
			data = map[string]any{}
		}
		data[key+"_ref"] = raw
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
