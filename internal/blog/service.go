package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/content"
	"github.com/agencykit/cms/internal/domain"
)

var (
	ErrTitleRequired        = errors.New("blog: title is required")
	ErrSlugInvalid          = errors.New("blog: slug contains invalid characters")
	ErrIDRequired           = errors.New("blog: post id required")
	ErrCategoryNameRequired = errors.New("blog: category name is required")
)

// Service exposes blog management use-cases.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*BlogPost, error)
	Get(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	List(ctx context.Context) ([]*BlogPost, error)
	Update(ctx context.Context, req UpdatePostRequest) (*BlogPost, error)
	Publish(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error

	EnsureCategory(ctx context.Context, name string) (*Category, error)
	Categorize(ctx context.Context, postID uuid.UUID, categoryNames []string) ([]*Category, error)
	Categories(ctx context.Context, postID uuid.UUID) ([]*Category, error)

	ImportDocument(ctx context.Context, document []byte) (*BlogPost, error)
}

// CreatePostRequest captures the information required to create a post.
type CreatePostRequest struct {
	Title          string
	Slug           string
	Excerpt        *string
	BodyMarkdown   string
	Status         string
	SEOTitle       *string
	SEODescription *string
}

// UpdatePostRequest carries partial updates; nil fields stay untouched.
// Supplying BodyMarkdown re-renders the stored HTML.
type UpdatePostRequest struct {
	ID             uuid.UUID
	Title          *string
	Excerpt        *string
	BodyMarkdown   *string
	SEOTitle       *string
	SEODescription *string
}

// documentMeta is the frontmatter header accepted by ImportDocument.
type documentMeta struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Excerpt     string   `yaml:"excerpt"`
	Status      string   `yaml:"status"`
	Categories  []string `yaml:"categories"`
	SEOTitle    string   `yaml:"seo_title"`
	Description string   `yaml:"seo_description"`
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

// WithRenderer overrides the markdown renderer.
func WithRenderer(renderer *Renderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

type service struct {
	repo     Repository
	renderer *Renderer
	now      func() time.Time
	id       func() uuid.UUID
}

// NewService constructs a blog service with the required dependencies.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		renderer: NewRenderer(),
		now:      time.Now,
		id:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*BlogPost, error) {
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

	slug, err := content.UniqueSlug(ctx, base, s.repo.PostSlugExists)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.Render(req.BodyMarkdown)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := domain.NormalizeStatus(req.Status)

	record := &BlogPost{
		ID:             s.id(),
		Slug:           slug,
		Title:          title,
		Excerpt:        req.Excerpt,
		BodyMarkdown:   req.BodyMarkdown,
		BodyHTML:       rendered,
		Status:         string(status),
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		PublishedAt:    content.PublishStamp(domain.StatusDraft, status, nil, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.repo.CreatePost(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetPostByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return s.repo.GetPostBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context) ([]*BlogPost, error) {
	return s.repo.ListPosts(ctx)
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*BlogPost, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetPostByID(ctx, req.ID)
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
	if req.Excerpt != nil {
		record.Excerpt = req.Excerpt
	}
	if req.BodyMarkdown != nil {
		rendered, err := s.renderer.Render(*req.BodyMarkdown)
		if err != nil {
			return nil, err
		}
		record.BodyMarkdown = *req.BodyMarkdown
		record.BodyHTML = rendered
	}
	if req.SEOTitle != nil {
		record.SEOTitle = req.SEOTitle
	}
	if req.SEODescription != nil {
		record.SEODescription = req.SEODescription
	}
	record.UpdatedAt = s.now()

	return s.repo.UpdatePost(ctx, record)
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.transition(ctx, id, domain.StatusPublished)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.transition(ctx, id, domain.StatusDraft)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.DeletePost(ctx, id)
}

// EnsureCategory finds a category by its derived slug or creates it.
func (s *service) EnsureCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	slug := content.Slugify(name)
	existing, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err == nil {
		return existing, nil
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	return s.repo.CreateCategory(ctx, &Category{
		ID:        s.id(),
		Slug:      slug,
		Name:      name,
		CreatedAt: s.now(),
	})
}

// Categorize ensures every named category exists and links it to the post.
func (s *service) Categorize(ctx context.Context, postID uuid.UUID, categoryNames []string) ([]*Category, error) {
	if postID == uuid.Nil {
		return nil, ErrIDRequired
	}

	for _, name := range categoryNames {
		category, err := s.EnsureCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := s.repo.AssignCategory(ctx, postID, category.ID); err != nil {
			return nil, err
		}
	}
	return s.repo.CategoriesForPost(ctx, postID)
}

func (s *service) Categories(ctx context.Context, postID uuid.UUID) ([]*Category, error) {
	if postID == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.CategoriesForPost(ctx, postID)
}

// ImportDocument creates a post from a markdown document with a frontmatter
// header carrying title, slug, excerpt, status, and categories.
func (s *service) ImportDocument(ctx context.Context, document []byte) (*BlogPost, error) {
	var meta documentMeta
	body, err := frontmatter.Parse(strings.NewReader(string(document)), &meta)
	if err != nil {
		return nil, err
	}

	req := CreatePostRequest{
		Title:        meta.Title,
		Slug:         meta.Slug,
		BodyMarkdown: string(body),
		Status:       meta.Status,
	}
	if meta.Excerpt != "" {
		req.Excerpt = &meta.Excerpt
	}
	if meta.SEOTitle != "" {
		req.SEOTitle = &meta.SEOTitle
	}
	if meta.Description != "" {
		req.SEODescription = &meta.Description
	}

	post, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(meta.Categories) > 0 {
		if _, err := s.Categorize(ctx, post.ID, meta.Categories); err != nil {
			return nil, err
		}
	}
	return post, nil
}

func (s *service) transition(ctx context.Context, id uuid.UUID, target domain.Status) (*BlogPost, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record.PublishedAt = content.PublishStamp(record.CurrentStatus(), target, record.PublishedAt, now)
	record.Status = string(target)
	record.UpdatedAt = now

	return s.repo.UpdatePost(ctx, record)
}
