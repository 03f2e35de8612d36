package contact

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Submission is a message left through the public contact form.
type Submission struct {
	bun.BaseModel `bun:"table:contact_submissions,alias:cs"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name      string     `bun:"name,notnull" json:"name"`
	Email     string     `bun:"email,notnull" json:"email"`
	Phone     string     `bun:"phone" json:"phone,omitempty"`
	Company   string     `bun:"company" json:"company,omitempty"`
	Message   string     `bun:"message,type:text,notnull" json:"message"`
	Source    string     `bun:"source" json:"source,omitempty"`
	ReadAt    *time.Time `bun:"read_at,nullzero" json:"read_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// NotFoundError represents missing submissions from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "contact submission not found"
	}
	return fmt.Sprintf("contact submission %q not found", e.Key)
}

var ErrIDRequired = errors.New("contact: submission id required")

// SubmitRequest carries the contact form payload.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// Validate implements the validation contract used by command messages.
func (r SubmitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Message, validation.Required),
	)
}

// Repository abstracts storage operations for submissions.
type Repository interface {
	Create(ctx context.Context, record *Submission) (*Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
	Update(ctx context.Context, record *Submission) (*Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes contact submission use-cases.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Submission, error)
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Submission, error)
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

// NewService constructs a contact service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{repo: repo, now: time.Now, id: uuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid contact submission").
			WithTextCode("CONTACT_VALIDATION")
	}

	return s.repo.Create(ctx, &Submission{
		ID:        s.id(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Message:   req.Message,
		Source:    req.Source,
		CreatedAt: s.now(),
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Submission, error) {
	return s.repo.List(ctx)
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*Submission, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.ReadAt != nil {
		return record, nil
	}
	now := s.now()
	record.ReadAt = &now
	return s.repo.Update(ctx, record)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// NewSubmissionRepository builds the generic bun repository for submissions.
func NewSubmissionRepository(db *bun.DB) repository.Repository[*Submission] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Submission]{
		NewRecord: func() *Submission { return &Submission{} },
		GetID: func(s *Submission) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Submission, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(s *Submission) string {
			return s.ID.String()
		},
	})
}

// BunRepository implements Repository on top of bun.
type BunRepository struct {
	repo repository.Repository[*Submission]
}

// NewBunRepository creates a submission repository backed by bun.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewSubmissionRepository(db)}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *Submission) (*Submission, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Key: id.String()}
		}
		return nil, fmt.Errorf("contact repository error: %w", err)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Submission, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at DESC")
		}),
	)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *Submission) (*Submission, error) {
	return r.repo.Update(ctx, record)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Submission{ID: id})
}

// MemoryRepository is an in-memory submission store for scaffolding/tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*Submission
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{submissions: make(map[uuid.UUID]*Submission)}
}

var _ Repository = (*MemoryRepository)(nil)

func cloneSubmission(record *Submission) *Submission {
	copied := *record
	if record.ReadAt != nil {
		v := *record.ReadAt
		copied.ReadAt = &v
	}
	return &copied
}

func (m *MemoryRepository) Create(_ context.Context, record *Submission) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneSubmission(record)
	m.submissions[copied.ID] = copied
	return cloneSubmission(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.submissions[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneSubmission(record), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Submission, 0, len(m.submissions))
	for _, record := range m.submissions {
		out = append(out, cloneSubmission(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Submission) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	copied := cloneSubmission(record)
	m.submissions[copied.ID] = copied
	return cloneSubmission(copied), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.submissions, id)
	return nil
}
