package quotes

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// QuoteStatus enumerates the quote lifecycle.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusConverted QuoteStatus = "converted"
)

// IsValid reports whether the status is one of the known lifecycle values.
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusConverted:
		return true
	}
	return false
}

// Quote is a priced offer sent to a prospective client.
type Quote struct {
	bun.BaseModel `bun:"table:quotes,alias:qt"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Reference   string      `bun:"reference,notnull,unique" json:"reference"`
	ClientName  string      `bun:"client_name,notnull" json:"client_name"`
	ClientEmail string      `bun:"client_email,notnull" json:"client_email"`
	Title       string      `bun:"title,notnull" json:"title"`
	Notes       string      `bun:"notes,type:text" json:"notes"`
	Status      QuoteStatus `bun:"status,notnull,default:'draft'" json:"status"`
	Items       []LineItem  `bun:"items,type:jsonb" json:"items"`
	TotalCents  int64       `bun:"total_cents,notnull,default:0" json:"total_cents"`
	Currency    string      `bun:"currency,notnull,default:'USD'" json:"currency"`
	CreatedAt   time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// LineItem is a single priced row on a quote.
type LineItem struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Total returns the line total in cents.
func (li LineItem) Total() int64 {
	return int64(li.Quantity) * li.UnitPriceCents
}

// Activity is an append-only trail entry recorded against a quote.
type Activity struct {
	bun.BaseModel `bun:"table:quote_activities,alias:qa"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	QuoteID   uuid.UUID `bun:"quote_id,notnull,type:uuid" json:"quote_id"`
	Kind      string    `bun:"kind,notnull" json:"kind"`
	Note      string    `bun:"note,type:text" json:"note"`
	Actor     string    `bun:"actor" json:"actor,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Activity kinds recorded by the service.
const (
	ActivityCreated       = "created"
	ActivityStatusChanged = "status_changed"
	ActivityNote          = "note"
)

// NotFoundError represents missing quotes from repository lookups.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "quote not found"
	}
	return fmt.Sprintf("quote %q not found", e.Key)
}
