package proposals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/domain"
)

// Template is a reusable proposal document with `{{token}}` placeholders
// filled in when a proposal is generated for a client.
type Template struct {
	bun.BaseModel `bun:"table:proposal_templates,alias:pt"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description,type:text" json:"description"`
	BodyHTML    string     `bun:"body_html,type:text" json:"body_html"`
	Status      string     `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	ArchivedAt  *time.Time `bun:"archived_at,nullzero" json:"archived_at,omitempty"`
}

// CurrentStatus returns the template status as a domain value.
func (t *Template) CurrentStatus() domain.Status {
	return domain.NormalizeStatus(t.Status)
}

// NotFoundError represents missing templates from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "proposal template not found"
	}
	return fmt.Sprintf("proposal template %q not found", e.Key)
}
