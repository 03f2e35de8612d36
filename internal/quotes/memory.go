package quotes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory quote store for scaffolding/tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	quotes     map[uuid.UUID]*Quote
	references map[string]uuid.UUID
	activities map[uuid.UUID][]*Activity
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		quotes:     make(map[uuid.UUID]*Quote),
		references: make(map[string]uuid.UUID),
		activities: make(map[uuid.UUID][]*Activity),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func cloneQuote(record *Quote) *Quote {
	copied := *record
	if record.Items != nil {
		copied.Items = make([]LineItem, len(record.Items))
		copy(copied.Items, record.Items)
	}
	return &copied
}

func (m *MemoryRepository) Create(_ context.Context, record *Quote) (*Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneQuote(record)
	m.quotes[copied.ID] = copied
	m.references[copied.Reference] = copied.ID
	return cloneQuote(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.quotes[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneQuote(record), nil
}

func (m *MemoryRepository) GetByReference(_ context.Context, reference string) (*Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.references[reference]
	if !ok {
		return nil, &NotFoundError{Key: reference}
	}
	return cloneQuote(m.quotes[id]), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Quote, 0, len(m.quotes))
	for _, record := range m.quotes {
		out = append(out, cloneQuote(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Quote) (*Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.quotes[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.references, existing.Reference)
	copied := cloneQuote(record)
	m.quotes[copied.ID] = copied
	m.references[copied.Reference] = copied.ID
	return cloneQuote(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.quotes[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.references, record.Reference)
	delete(m.quotes, id)
	delete(m.activities, id)
	return nil
}

func (m *MemoryRepository) AppendActivity(_ context.Context, entry *Activity) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.activities[copied.QuoteID] = append(m.activities[copied.QuoteID], &copied)
	out := copied
	return &out, nil
}

func (m *MemoryRepository) Activities(_ context.Context, quoteID uuid.UUID) ([]*Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.activities[quoteID]
	out := make([]*Activity, 0, len(entries))
	for _, entry := range entries {
		copied := *entry
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
