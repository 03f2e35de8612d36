package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/content"
	"github.com/agencykit/cms/internal/domain"
)

var (
	ErrTitleRequired = errors.New("services: title is required")
	ErrSlugInvalid   = errors.New("services: slug contains invalid characters")
	ErrIDRequired    = errors.New("services: offering id required")
)

// Service exposes offering management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateOfferingRequest) (*Offering, error)
	Get(ctx context.Context, id uuid.UUID) (*Offering, error)
	GetBySlug(ctx context.Context, slug string) (*Offering, error)
	List(ctx context.Context) ([]*Offering, error)
	Update(ctx context.Context, req UpdateOfferingRequest) (*Offering, error)
	Publish(ctx context.Context, id uuid.UUID) (*Offering, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateOfferingRequest captures the information required to create an offering.
type CreateOfferingRequest struct {
	Title          string
	Slug           string
	Summary        *string
	Body           string
	Icon           *string
	Position       int
	Status         string
	SEOTitle       *string
	SEODescription *string
}

// UpdateOfferingRequest carries partial updates; nil fields stay untouched.
type UpdateOfferingRequest struct {
	ID             uuid.UUID
	Title          *string
	Summary        *string
	Body           *string
	Icon           *string
	Position       *int
	SEOTitle       *string
	SEODescription *string
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

type service struct {
	repo Repository
	now  func() time.Time
	id   func() uuid.UUID
}

// NewService constructs an offering service with the required dependencies.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo: repo,
		now:  time.Now,
		id:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateOfferingRequest) (*Offering, error) {
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
	status := domain.NormalizeStatus(req.Status)

	record := &Offering{
		ID:             s.id(),
		Slug:           slug,
		Title:          title,
		Summary:        req.Summary,
		Body:           req.Body,
		Icon:           req.Icon,
		Position:       req.Position,
		Status:         string(status),
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		PublishedAt:    content.PublishStamp(domain.StatusDraft, status, nil, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.repo.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Offering, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context) ([]*Offering, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateOfferingRequest) (*Offering, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if req.Summary != nil {
		record.Summary = req.Summary
	}
	if req.Body != nil {
		record.Body = *req.Body
	}
	if req.Icon != nil {
		record.Icon = req.Icon
	}
	if req.Position != nil {
		record.Position = *req.Position
	}
	if req.SEOTitle != nil {
		record.SEOTitle = req.SEOTitle
	}
	if req.SEODescription != nil {
		record.SEODescription = req.SEODescription
	}
	record.UpdatedAt = s.now()

	return s.repo.Update(ctx, record)
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*Offering, error) {
	return s.transition(ctx, id, domain.StatusPublished)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*Offering, error) {
	return s.transition(ctx, id, domain.StatusDraft)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, target domain.Status) (*Offering, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record.PublishedAt = content.PublishStamp(record.CurrentStatus(), target, record.PublishedAt, now)
	record.Status = string(target)
	record.UpdatedAt = now

	return s.repo.Update(ctx, record)
}
