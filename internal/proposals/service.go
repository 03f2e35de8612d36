package proposals

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/content"
	"github.com/agencykit/cms/internal/domain"
	"github.com/agencykit/cms/internal/sanitizer"
)

var (
	ErrTitleRequired = errors.New("proposals: title is required")
	ErrSlugInvalid   = errors.New("proposals: slug contains invalid characters")
	ErrIDRequired    = errors.New("proposals: template id required")
	ErrArchived      = errors.New("proposals: template is archived")
)

var tokenRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.-]+)\s*\}\}`)

// Service exposes proposal template use-cases.
type Service interface {
	Create(ctx context.Context, req CreateTemplateRequest) (*Template, error)
	Get(ctx context.Context, id uuid.UUID) (*Template, error)
	GetBySlug(ctx context.Context, slug string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Update(ctx context.Context, req UpdateTemplateRequest) (*Template, error)
	Duplicate(ctx context.Context, id uuid.UUID) (*Template, error)
	Archive(ctx context.Context, id uuid.UUID) (*Template, error)
	Render(ctx context.Context, id uuid.UUID, values map[string]string) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateTemplateRequest captures the information required to create a template.
type CreateTemplateRequest struct {
	Title       string
	Slug        string
	Description string
	BodyHTML    string
}

// UpdateTemplateRequest carries partial updates; nil fields stay untouched.
type UpdateTemplateRequest struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	BodyHTML    *string
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

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// NewService constructs a proposal template service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{repo: repo, now: time.Now, id: uuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateTemplateRequest) (*Template, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	base := strings.TrimSpace(req.Slug)
	if base == "" {
		base = content.Slugify(title)
	} else if !content.IsValidSlug(base) {
		return nil, ErrSlugInvalid
	}

	slug, err := content.UniqueSlug(ctx, base, s.repo.ExistsBySlug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.repo.Create(ctx, &Template{
		ID:          s.id(),
		Slug:        slug,
		Title:       title,
		Description: req.Description,
		BodyHTML:    sanitizer.Sanitize(req.BodyHTML).Sanitized,
		Status:      string(domain.StatusDraft),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Template, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context) ([]*Template, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateTemplateRequest) (*Template, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.CurrentStatus() == domain.StatusArchived {
		return nil, ErrArchived
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, ErrTitleRequired
		}
		record.Title = trimmed
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.BodyHTML != nil {
		record.BodyHTML = sanitizer.Sanitize(*req.BodyHTML).Sanitized
	}
	record.UpdatedAt = s.now()

	return s.repo.Update(ctx, record)
}

// Duplicate copies an existing template under a fresh slug so editors can
// branch a proposal without touching the original.
func (s *service) Duplicate(ctx context.Context, id uuid.UUID) (*Template, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	source, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := source.Title + " (Copy)"
	slug, err := content.UniqueSlug(ctx, content.Slugify(title), s.repo.ExistsBySlug)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.repo.Create(ctx, &Template{
		ID:          s.id(),
		Slug:        slug,
		Title:       title,
		Description: source.Description,
		BodyHTML:    source.BodyHTML,
		Status:      string(domain.StatusDraft),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) (*Template, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.CurrentStatus() == domain.StatusArchived {
		return record, nil
	}

	now := s.now()
	record.Status = string(domain.StatusArchived)
	record.ArchivedAt = &now
	record.UpdatedAt = now

	return s.repo.Update(ctx, record)
}

// Render fills `{{token}}` placeholders with the supplied values. Unknown
// tokens are left in place so missing data stays visible in the output.
func (s *service) Render(ctx context.Context, id uuid.UUID, values map[string]string) (string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	rendered := tokenRe.ReplaceAllStringFunc(record.BodyHTML, func(match string) string {
		key := tokenRe.FindStringSubmatch(match)[1]
		if value, ok := values[key]; ok {
			return value
		}
		return match
	})
	return rendered, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}
