package faqs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/content"
	"github.com/agencykit/cms/internal/domain"
)

// FAQ is a question/answer pair shown on the public site.
type FAQ struct {
	bun.BaseModel `bun:"table:faqs,alias:fq"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	Question  string    `bun:"question,notnull" json:"question"`
	Answer    string    `bun:"answer,type:text" json:"answer"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	Status    string    `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NotFoundError represents missing FAQs from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "faq not found"
	}
	return fmt.Sprintf("faq %q not found", e.Key)
}

var (
	ErrQuestionRequired = errors.New("faqs: question is required")
	ErrIDRequired       = errors.New("faqs: faq id required")
)

// Repository abstracts storage operations for FAQs.
type Repository interface {
	Create(ctx context.Context, record *FAQ) (*FAQ, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FAQ, error)
	List(ctx context.Context) ([]*FAQ, error)
	Update(ctx context.Context, record *FAQ) (*FAQ, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// Service exposes FAQ management use-cases.
type Service interface {
	Create(ctx context.Context, question, answer string, position int) (*FAQ, error)
	Get(ctx context.Context, id uuid.UUID) (*FAQ, error)
	List(ctx context.Context) ([]*FAQ, error)
	Update(ctx context.Context, id uuid.UUID, question, answer *string, position *int) (*FAQ, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*FAQ, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
	id   func() uuid.UUID
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService constructs a FAQ service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{repo: repo, now: time.Now, id: uuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, question, answer string, position int) (*FAQ, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	slug, err := content.UniqueSlug(ctx, content.Slugify(question), s.repo.ExistsBySlug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.repo.Create(ctx, &FAQ{
		ID:        s.id(),
		Slug:      slug,
		Question:  question,
		Answer:    answer,
		Position:  position,
		Status:    string(domain.StatusDraft),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*FAQ, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*FAQ, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, question, answer *string, position *int) (*FAQ, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if question != nil {
		trimmed := strings.TrimSpace(*question)
		if trimmed == "" {
			return nil, ErrQuestionRequired
		}
		record.Question = trimmed
	}
	if answer != nil {
		record.Answer = *answer
	}
	if position != nil {
		record.Position = *position
	}
	record.UpdatedAt = s.now()

	return s.repo.Update(ctx, record)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*FAQ, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Status = string(status)
	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// NewFAQRepository builds the generic bun repository for FAQs.
func NewFAQRepository(db *bun.DB) repository.Repository[*FAQ] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*FAQ]{
		NewRecord: func() *FAQ { return &FAQ{} },
		GetID: func(f *FAQ) uuid.UUID {
			return f.ID
		},
		SetID: func(f *FAQ, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(f *FAQ) string {
			return f.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo repository.Repository[*FAQ]
}

// NewBunRepository creates a FAQ repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a FAQ repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewFAQRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *FAQ) (*FAQ, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*FAQ, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, fmt.Errorf("faqs repository error: %w", err)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*FAQ, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *FAQ) (*FAQ, error) {
	return r.repo.Update(ctx, record)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &FAQ{ID: id})
}

func (r *BunRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// MemoryRepository is an in-memory FAQ store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	faqs      map[uuid.UUID]*FAQ
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		faqs:      make(map[uuid.UUID]*FAQ),
		slugIndex: make(map[string]uuid.UUID),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *FAQ) (*FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.faqs[copied.ID] = &copied
	m.slugIndex[copied.Slug] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.faqs[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	copied := *record
	return &copied, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*FAQ, 0, len(m.faqs))
	for _, record := range m.faqs {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *FAQ) (*FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.faqs[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	delete(m.slugIndex, existing.Slug)
	copied := *record
	m.faqs[copied.ID] = &copied
	m.slugIndex[copied.Slug] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.faqs[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.faqs, id)
	return nil
}

func (m *MemoryRepository) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slugIndex[slug]
	return ok, nil
}
