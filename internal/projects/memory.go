package projects

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory project store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID]*Project
	slugIndex map[string]uuid.UUID
	images    map[uuid.UUID]*ProjectImage
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects:  make(map[uuid.UUID]*Project),
		slugIndex: make(map[string]uuid.UUID),
		images:    make(map[uuid.UUID]*ProjectImage),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.projects[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneProject(record), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Key: slug}
	}
	return cloneProject(m.projects[id]), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Project, 0, len(m.projects))
	for _, record := range m.projects {
		out = append(out, cloneProject(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneProject(record)
	m.projects[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.projects[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.projects, id)
	for imageID, image := range m.images {
		if image.ProjectID == id {
			delete(m.images, imageID)
		}
	}
	return nil
}

func (m *MemoryRepository) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slugIndex[slug]
	return ok, nil
}

func (m *MemoryRepository) AddImage(_ context.Context, image *ProjectImage) (*ProjectImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[image.ProjectID]; !ok {
		return nil, &NotFoundError{Key: image.ProjectID.String()}
	}
	copied := *image
	m.images[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *MemoryRepository) ListImages(_ context.Context, projectID uuid.UUID) ([]*ProjectImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*ProjectImage{}
	for _, image := range m.images {
		if image.ProjectID == projectID {
			copied := *image
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *MemoryRepository) RemoveImage(_ context.Context, imageID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[imageID]; !ok {
		return &NotFoundError{Key: imageID.String()}
	}
	delete(m.images, imageID)
	return nil
}

func cloneProject(record *Project) *Project {
	if record == nil {
		return nil
	}
	copied := *record
	for _, field := range []**string{&copied.Summary, &copied.ClientName, &copied.SEOTitle, &copied.SEODescription} {
		if *field != nil {
			v := **field
			*field = &v
		}
	}
	if record.PublishedAt != nil {
		v := *record.PublishedAt
		copied.PublishedAt = &v
	}
	copied.Images = nil
	return &copied
}
