package state

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	choices "github.com/goliatone/go-choices"
	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in memory, keyed by Ref.Identifier. Every save
// gets a fresh snapshot id and ETag.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	snapshot choices.Snapshot
	meta     Meta
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (choices.Snapshot, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return choices.Snapshot{}, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return choices.Snapshot{}, Meta{}, false, nil
	}
	return cloneSnapshot(record.snapshot), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, snapshot choices.Snapshot, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.records[key]; ok && meta.ETag != "" && meta.ETag != current.meta.ETag {
		return Meta{}, ErrETagMismatch
	}
	stored := cloneMeta(meta)
	stored.SnapshotID = uuid.NewString()
	stored.ETag = uuid.NewString()
	stored.UpdatedAt = s.now()
	s.records[key] = memoryRecord{snapshot: cloneSnapshot(snapshot), meta: stored}
	return cloneMeta(stored), nil
}

func cloneSnapshot(snapshot choices.Snapshot) choices.Snapshot {
	snapshot.Value = slices.Clone(snapshot.Value)
	return snapshot
}

func cloneMeta(meta Meta) Meta {
	meta.Extra = maps.Clone(meta.Extra)
	return meta
}
