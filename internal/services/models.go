package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/domain"
)

// Offering is a service the agency sells, e.g. branding or web development.
type Offering struct {
	bun.BaseModel `bun:"table:services,alias:sv"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	Title          string     `bun:"title,notnull" json:"title"`
	Summary        *string    `bun:"summary" json:"summary,omitempty"`
	Body           string     `bun:"body,type:text" json:"body"`
	Icon           *string    `bun:"icon" json:"icon,omitempty"`
	Position       int        `bun:"position,notnull,default:0" json:"position"`
	Status         string     `bun:"status,notnull,default:'draft'" json:"status"`
	SEOTitle       *string    `bun:"seo_title" json:"seo_title,omitempty"`
	SEODescription *string    `bun:"seo_description" json:"seo_description,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// CurrentStatus returns the offering status as a domain value.
func (o *Offering) CurrentStatus() domain.Status {
	return domain.NormalizeStatus(o.Status)
}

// NotFoundError represents missing offerings from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "service not found"
	}
	return fmt.Sprintf("service %q not found", e.Key)
}
