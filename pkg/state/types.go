package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	choices "github.com/goliatone/go-choices"
)

// ErrETagMismatch is returned by Save when the caller's ETag is stale.
var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted selection.
type Ref struct {
	// Domain names the control, usually the controller id.
	Domain string
	// Scope is "system", "tenant", "org", "team" or "user".
	Scope   string
	ScopeID string
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot per Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot choices.Snapshot, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot choices.Snapshot, meta Meta) (Meta, error)
}

// Identifier renders the ref as a store key.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	switch r.Scope {
	case "", "system":
		return "system/" + r.Domain, nil
	case "tenant", "org", "team", "user":
		if r.ScopeID == "" {
			return "", fmt.Errorf("state: missing id for scope %q", r.Scope)
		}
		return fmt.Sprintf("%s/%s/%s", r.Scope, r.ScopeID, r.Domain), nil
	default:
		return "", fmt.Errorf("state: unsupported scope %q", r.Scope)
	}
}

// Save stores the controller's current selection under ref. meta.ETag, when
// set, must match the stored one.
func Save(ctx context.Context, store Store, ref Ref, ctrl *choices.Controller, meta Meta) (Meta, error) {
	if store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	saved, err := store.Save(ctx, ref, ctrl.Snapshot(), meta)
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %s: %w", describe(ref), err)
	}
	return saved, nil
}

// Restore loads the selection stored under ref into ctrl. It reports false
// when nothing is stored.
func Restore(ctx context.Context, store Store, ref Ref, ctrl *choices.Controller) (Meta, bool, error) {
	if store == nil {
		return Meta{}, false, fmt.Errorf("state: store is required")
	}
	snapshot, meta, ok, err := store.Load(ctx, ref)
	if err != nil {
		return Meta{}, false, fmt.Errorf("state: load %s: %w", describe(ref), err)
	}
	if !ok {
		return Meta{}, false, nil
	}
	ctrl.Restore(snapshot)
	return meta, true, nil
}

func describe(ref Ref) string {
	if key, err := ref.Identifier(); err == nil {
		return key
	}
	return fmt.Sprintf("%q", ref.Domain)
}
