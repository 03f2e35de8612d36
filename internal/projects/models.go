package projects

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/domain"
)

// Project is a portfolio entry showcased on the agency site.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:pr"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	Title          string     `bun:"title,notnull" json:"title"`
	Summary        *string    `bun:"summary" json:"summary,omitempty"`
	Body           string     `bun:"body,type:text" json:"body"`
	ClientName     *string    `bun:"client_name" json:"client_name,omitempty"`
	Status         string     `bun:"status,notnull,default:'draft'" json:"status"`
	SEOTitle       *string    `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string    `bun:"seo_description" json:"seo_description,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Images []*ProjectImage `bun:"rel:has-many,join:id=project_id" json:"images,omitempty"`
}

// ProjectImage is a gallery image attached to a project.
type ProjectImage struct {
	bun.BaseModel `bun:"table:project_images,alias:pi"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	URL       string    `bun:"url,notnull" json:"url"`
	AltText   *string   `bun:"alt_text" json:"alt_text,omitempty"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// CurrentStatus returns the project status as a domain value.
func (p *Project) CurrentStatus() domain.Status {
	return domain.NormalizeStatus(p.Status)
}

// NotFoundError represents missing projects from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "project not found"
	}
	return fmt.Sprintf("project %q not found", e.Key)
}
