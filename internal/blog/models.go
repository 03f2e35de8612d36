package blog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/domain"
)

// BlogPost is an article on the agency blog. The markdown source is kept
// alongside the rendered HTML so edits can re-render without data loss.
type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts,alias:bp"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	Title          string     `bun:"title,notnull" json:"title"`
	Excerpt        *string    `bun:"excerpt" json:"excerpt,omitempty"`
	BodyMarkdown   string     `bun:"body_markdown,type:text" json:"body_markdown"`
	BodyHTML       string     `bun:"body_html,type:text" json:"body_html"`
	Status         string     `bun:"status,notnull,default:'draft'" json:"status"`
	SEOTitle       *string    `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string    `bun:"seo_description" json:"seo_description,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Categories []*Category `bun:"m2m:blog_post_categories,join:BlogPost=Category" json:"categories,omitempty"`
}

// Category groups blog posts.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// BlogPostCategory is the join table between posts and categories.
type BlogPostCategory struct {
	bun.BaseModel `bun:"table:blog_post_categories,alias:bpc"`

	BlogPostID uuid.UUID `bun:"blog_post_id,pk,type:uuid" json:"blog_post_id"`
	CategoryID uuid.UUID `bun:"category_id,pk,type:uuid" json:"category_id"`

	BlogPost *BlogPost `bun:"rel:belongs-to,join:blog_post_id=id" json:"-"`
	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"-"`
}

// CurrentStatus returns the post status as a domain value.
func (p *BlogPost) CurrentStatus() domain.Status {
	return domain.NormalizeStatus(p.Status)
}

// NotFoundError represents missing blog records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "blog post"
	}
	if e.Key == "" {
		return resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", resource, e.Key)
}
