package blog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory blog store for scaffolding/tests.
type MemoryRepository struct {
	mu            sync.RWMutex
	posts         map[uuid.UUID]*BlogPost
	postSlugs     map[string]uuid.UUID
	categories    map[uuid.UUID]*Category
	categorySlugs map[string]uuid.UUID
	links         map[uuid.UUID]map[uuid.UUID]struct{}
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:         make(map[uuid.UUID]*BlogPost),
		postSlugs:     make(map[string]uuid.UUID),
		categories:    make(map[uuid.UUID]*Category),
		categorySlugs: make(map[string]uuid.UUID),
		links:         make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreatePost(_ context.Context, record *BlogPost) (*BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.postSlugs[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryRepository) GetPostByID(_ context.Context, id uuid.UUID) (*BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "blog post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *MemoryRepository) GetPostBySlug(_ context.Context, slug string) (*BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.postSlugs[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "blog post", Key: slug}
	}
	return clonePost(m.posts[id]), nil
}

func (m *MemoryRepository) ListPosts(_ context.Context) ([]*BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*BlogPost, 0, len(m.posts))
	for _, record := range m.posts {
		out = append(out, clonePost(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) UpdatePost(_ context.Context, record *BlogPost) (*BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.posts[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "blog post", Key: record.ID.String()}
	}
	delete(m.postSlugs, existing.Slug)
	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.postSlugs[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

func (m *MemoryRepository) DeletePost(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.posts[id]
	if !ok {
		return &NotFoundError{Resource: "blog post", Key: id.String()}
	}
	delete(m.postSlugs, record.Slug)
	delete(m.posts, id)
	delete(m.links, id)
	return nil
}

func (m *MemoryRepository) PostSlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.postSlugs[slug]
	return ok, nil
}

func (m *MemoryRepository) CreateCategory(_ context.Context, record *Category) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.categories[copied.ID] = &copied
	m.categorySlugs[copied.Slug] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryRepository) GetCategoryBySlug(_ context.Context, slug string) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.categorySlugs[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: slug}
	}
	copied := *m.categories[id]
	return &copied, nil
}

func (m *MemoryRepository) ListCategories(_ context.Context) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Category, 0, len(m.categories))
	for _, record := range m.categories {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryRepository) CategorySlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.categorySlugs[slug]
	return ok, nil
}

func (m *MemoryRepository) AssignCategory(_ context.Context, postID, categoryID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return &NotFoundError{Resource: "blog post", Key: postID.String()}
	}
	if _, ok := m.categories[categoryID]; !ok {
		return &NotFoundError{Resource: "category", Key: categoryID.String()}
	}
	if m.links[postID] == nil {
		m.links[postID] = make(map[uuid.UUID]struct{})
	}
	m.links[postID][categoryID] = struct{}{}
	return nil
}

func (m *MemoryRepository) CategoriesForPost(_ context.Context, postID uuid.UUID) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Category{}
	for categoryID := range m.links[postID] {
		if record, ok := m.categories[categoryID]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func clonePost(record *BlogPost) *BlogPost {
	if record == nil {
		return nil
	}
	copied := *record
	for _, field := range []**string{&copied.Excerpt, &copied.SEOTitle, &copied.SEODescription} {
		if *field != nil {
			v := **field
			*field = &v
		}
	}
	if record.PublishedAt != nil {
		v := *record.PublishedAt
		copied.PublishedAt = &v
	}
	copied.Categories = nil
	return &copied
}
