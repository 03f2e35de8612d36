package interfaces

import "context"

// CheckoutParams carries the information needed to start a payment.
type CheckoutParams struct {
	AmountCents   int64          `json:"amount_cents"`
	Currency      string         `json:"currency"`
	Description   string         `json:"description,omitempty"`
	CustomerName  string         `json:"customer_name,omitempty"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Checkout is the uniform result of initiating a payment. Hosted providers
// return a redirect URL; manual providers return a payment reference instead.
type Checkout struct {
	URL       string `json:"url,omitempty"`
	OrderID   string `json:"order_id"`
	Reference string `json:"reference,omitempty"`
}

// CheckoutProvider dispatches checkout creation to a concrete payment path.
type CheckoutProvider interface {
	Name() string
	CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error)
}
