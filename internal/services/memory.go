package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory offering store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	offerings map[uuid.UUID]*Offering
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		offerings: make(map[uuid.UUID]*Offering),
		slugIndex: make(map[string]uuid.UUID),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *Offering) (*Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneOffering(record)
	m.offerings[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneOffering(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.offerings[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneOffering(record), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Key: slug}
	}
	return cloneOffering(m.offerings[id]), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Offering, 0, len(m.offerings))
	for _, record := range m.offerings {
		out = append(out, cloneOffering(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Offering) (*Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.offerings[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneOffering(record)
	m.offerings[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneOffering(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.offerings[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.offerings, id)
	return nil
}

func (m *MemoryRepository) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slugIndex[slug]
	return ok, nil
}

func cloneOffering(record *Offering) *Offering {
	if record == nil {
		return nil
	}
	copied := *record
	for _, field := range []**string{&copied.Summary, &copied.Icon, &copied.SEOTitle, &copied.SEODescription} {
		if *field != nil {
			v := **field
			*field = &v
		}
	}
	if record.PublishedAt != nil {
		v := *record.PublishedAt
		copied.PublishedAt = &v
	}
	return &copied
}
