package settings

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Setting is one keyed configuration blob in the app_config table.
type Setting struct {
	bun.BaseModel `bun:"table:app_config,alias:ac"`

	ID        uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	Key       string          `bun:"key,notnull,unique" json:"key"`
	Value     json.RawMessage `bun:"value,type:jsonb,notnull" json:"value"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Well-known configuration keys.
const (
	KeyContactInfo     = "contact_info"
	KeySEODefaults     = "seo_defaults"
	KeyPaymentSettings = "payment_settings"
)

// ContactInfo is the agency contact block shown in the site footer.
type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	MapURL   string `json:"map_url,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// SEODefaults provide fallbacks for entities without their own SEO fields.
type SEODefaults struct {
	TitleSuffix  string `json:"title_suffix"`
	Description  string `json:"description,omitempty"`
	OGImageURL   string `json:"og_image_url,omitempty"`
	CanonicalURL string `json:"canonical_url,omitempty"`
}

// PaymentSettings select and configure the active checkout provider.
type PaymentSettings struct {
	Provider        string `json:"provider"`
	Currency        string `json:"currency"`
	BankName        string `json:"bank_name,omitempty"`
	BankAccountIBAN string `json:"bank_account_iban,omitempty"`
	InstructionsURL string `json:"instructions_url,omitempty"`
}

// DefaultContactInfo is served when the backend is unreachable or the key
// has never been written.
func DefaultContactInfo() ContactInfo {
	return ContactInfo{Email: "hello@agency.test"}
}

func DefaultSEODefaults() SEODefaults {
	return SEODefaults{TitleSuffix: " | Agency"}
}

func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{Provider: "hosted", Currency: "USD"}
}

// NotFoundError represents a configuration key with no stored value.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("setting %q not found", e.Key)
}
