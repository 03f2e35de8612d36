package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/identity"
)

// Store abstracts reads and writes of raw configuration blobs.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// NewSettingRepository builds the generic bun repository for app_config rows.
func NewSettingRepository(db *bun.DB) repository.Repository[*Setting] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Setting]{
		NewRecord: func() *Setting { return &Setting{} },
		GetID: func(s *Setting) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Setting, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(s *Setting) string {
			return s.Key
		},
	})
}

// BunStore implements Store on top of bun.
type BunStore struct {
	repo repository.Repository[*Setting]
	now  func() time.Time
}

// NewBunStore creates a configuration store backed by bun.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{repo: NewSettingRepository(db), now: time.Now}
}

var _ Store = (*BunStore)(nil)

func (s *BunStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	record, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("settings store error: %w", err)
	}
	return record.Value, nil
}

func (s *BunStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	record := &Setting{
		// deterministic per-key id keeps writes idempotent upserts
		ID:        identity.SettingUUID(key),
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	}
	if _, err := s.repo.GetByIdentifier(ctx, key); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			_, err = s.repo.Create(ctx, record)
			return err
		}
		return fmt.Errorf("settings store error: %w", err)
	}
	_, err := s.repo.Update(ctx, record)
	return err
}

// MemoryStore is an in-memory configuration store for scaffolding/tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage

	// FailReads simulates an unreachable backend.
	FailReads bool
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

var _ Store = (*MemoryStore)(nil)

// ErrStoreUnavailable is returned when FailReads is set.
var ErrStoreUnavailable = fmt.Errorf("settings: store unavailable")

func (m *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads {
		return nil, ErrStoreUnavailable
	}
	value, ok := m.values[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}
