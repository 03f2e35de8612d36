package projects

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
	ErrTitleRequired = errors.New("projects: title is required")
	ErrSlugInvalid   = errors.New("projects: slug contains invalid characters")
	ErrIDRequired    = errors.New("projects: project id required")
	ErrImageURLEmpty = errors.New("projects: image url is required")
)

// Service exposes portfolio management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, req UpdateProjectRequest) (*Project, error)
	Publish(ctx context.Context, id uuid.UUID) (*Project, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddImage(ctx context.Context, req AddImageRequest) (*ProjectImage, error)
	Images(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error)
	RemoveImage(ctx context.Context, imageID uuid.UUID) error
}

// CreateProjectRequest captures the information required to create a project.
type CreateProjectRequest struct {
	Title          string
	Slug           string
	Summary        *string
	Body           string
	ClientName     *string
	Status         string
	SEOTitle       *string
	SEODescription *string
}

// UpdateProjectRequest carries partial updates; nil fields stay untouched.
type UpdateProjectRequest struct {
	ID             uuid.UUID
	Title          *string
	Summary        *string
	Body           *string
	ClientName     *string
	SEOTitle       *string
	SEODescription *string
}

// AddImageRequest attaches a gallery image to a project.
type AddImageRequest struct {
	ProjectID uuid.UUID
	URL       string
	AltText   *string
	Position  int
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

// NewService constructs a project service with the required dependencies.
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

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
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

	record := &Project{
		ID:             s.id(),
		Slug:           slug,
		Title:          title,
		Summary:        req.Summary,
		Body:           req.Body,
		ClientName:     req.ClientName,
		Status:         string(status),
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		PublishedAt:    content.PublishStamp(domain.StatusDraft, status, nil, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.repo.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateProjectRequest) (*Project, error) {
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
	if req.ClientName != nil {
		record.ClientName = req.ClientName
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

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.transition(ctx, id, domain.StatusPublished)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.transition(ctx, id, domain.StatusDraft)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddImage(ctx context.Context, req AddImageRequest) (*ProjectImage, error) {
	if req.ProjectID == uuid.Nil {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrImageURLEmpty
	}

	image := &ProjectImage{
		ID:        s.id(),
		ProjectID: req.ProjectID,
		URL:       strings.TrimSpace(req.URL),
		AltText:   req.AltText,
		Position:  req.Position,
		CreatedAt: s.now(),
	}
	return s.repo.AddImage(ctx, image)
}

func (s *service) Images(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error) {
	if projectID == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.ListImages(ctx, projectID)
}

func (s *service) RemoveImage(ctx context.Context, imageID uuid.UUID) error {
	if imageID == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.RemoveImage(ctx, imageID)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, target domain.Status) (*Project, error) {
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
