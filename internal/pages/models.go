package pages

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/domain"
)

// Page is a standalone marketing page such as About or Careers.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	Title          string     `bun:"title,notnull" json:"title"`
	Body           string     `bun:"body,type:text" json:"body"`
	Status         string     `bun:"status,notnull,default:'draft'" json:"status"`
	SEOTitle       *string    `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string    `bun:"seo_description" json:"seo_description,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// CurrentStatus returns the page status as a domain value.
func (p *Page) CurrentStatus() domain.Status {
	return domain.NormalizeStatus(p.Status)
}

// NotFoundError represents missing pages from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "page not found"
	}
	return fmt.Sprintf("page %q not found", e.Key)
}
