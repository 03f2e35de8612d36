package proposals

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory template store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*Template
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		templates: make(map[uuid.UUID]*Template),
		slugIndex: make(map[string]uuid.UUID),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func cloneTemplate(record *Template) *Template {
	copied := *record
	if record.ArchivedAt != nil {
		v := *record.ArchivedAt
		copied.ArchivedAt = &v
	}
	return &copied
}

func (m *MemoryRepository) Create(_ context.Context, record *Template) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneTemplate(record)
	m.templates[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneTemplate(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.templates[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneTemplate(record), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Key: slug}
	}
	return cloneTemplate(m.templates[id]), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Template, 0, len(m.templates))
	for _, record := range m.templates {
		out = append(out, cloneTemplate(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Template) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.templates[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneTemplate(record)
	m.templates[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneTemplate(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.templates[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.templates, id)
	return nil
}

func (m *MemoryRepository) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slugIndex[slug]
	return ok, nil
}
