package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"

	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/pkg/interfaces"
)

// Backend function names dispatched by the providers.
const (
	FunctionCreateCheckout  = "create-checkout"
	FunctionCreateBankOrder = "create-bank-order"
)

// Provider names reported by Name() and used in payment settings.
const (
	ProviderHosted       = "hosted"
	ProviderBankTransfer = "bank_transfer"
)

var (
	ErrAmountInvalid   = errors.New("payments: amount must be positive")
	ErrProviderUnknown = errors.New("payments: unknown provider")
)

type checkoutResponse struct {
	URL       string `json:"url,omitempty"`
	OrderID   string `json:"order_id"`
	Reference string `json:"reference,omitempty"`
}

func invoke(ctx context.Context, functions interfaces.Functions, name string, params interfaces.CheckoutParams) (*interfaces.Checkout, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("payments: encode %s payload: %w", name, err)
	}

	raw, err := functions.Invoke(ctx, name, payload)
	if err != nil {
		return nil, fmt.Errorf("payments: %s failed: %w", name, err)
	}

	var resp checkoutResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("payments: decode %s response: %w", name, err)
	}
	if resp.OrderID == "" {
		return nil, fmt.Errorf("payments: %s returned no order id", name)
	}

	return &interfaces.Checkout{
		URL:       resp.URL,
		OrderID:   resp.OrderID,
		Reference: resp.Reference,
	}, nil
}

func validateAmount(params interfaces.CheckoutParams) error {
	if params.AmountCents <= 0 {
		return ErrAmountInvalid
	}
	return nil
}

// HostedProvider redirects the customer to an externally hosted checkout page.
type HostedProvider struct {
	functions interfaces.Functions
	logger    interfaces.Logger
}

// NewHostedProvider constructs the hosted checkout provider.
func NewHostedProvider(functions interfaces.Functions, logger interfaces.Logger) *HostedProvider {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &HostedProvider{functions: functions, logger: logger}
}

var _ interfaces.CheckoutProvider = (*HostedProvider)(nil)

func (p *HostedProvider) Name() string { return ProviderHosted }

func (p *HostedProvider) CreateCheckout(ctx context.Context, params interfaces.CheckoutParams) (*interfaces.Checkout, error) {
	if err := validateAmount(params); err != nil {
		return nil, err
	}

	checkout, err := invoke(ctx, p.functions, FunctionCreateCheckout, params)
	if err != nil {
		return nil, err
	}
	if checkout.URL == "" {
		return nil, fmt.Errorf("payments: hosted checkout returned no redirect url")
	}

	p.logger.Info("hosted checkout created",
		"order_id", checkout.OrderID,
		"amount_cents", params.AmountCents,
		"currency", params.Currency,
	)
	return checkout, nil
}

// BankTransferProvider records a manual bank-transfer order. The customer
// pays offline against the returned reference, so identifying details are
// required up front.
type BankTransferProvider struct {
	functions interfaces.Functions
	logger    interfaces.Logger
}

// NewBankTransferProvider constructs the bank-transfer provider.
func NewBankTransferProvider(functions interfaces.Functions, logger interfaces.Logger) *BankTransferProvider {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &BankTransferProvider{functions: functions, logger: logger}
}

var _ interfaces.CheckoutProvider = (*BankTransferProvider)(nil)

func (p *BankTransferProvider) Name() string { return ProviderBankTransfer }

func validateCustomer(params interfaces.CheckoutParams) error {
	err := validation.Errors{
		"customer_name":  validation.Validate(params.CustomerName, validation.Required),
		"customer_email": validation.Validate(params.CustomerEmail, validation.Required, is.Email),
	}.Filter()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "bank transfer requires customer details").
			WithTextCode("PAYMENT_CUSTOMER_REQUIRED")
	}
	return nil
}

func (p *BankTransferProvider) CreateCheckout(ctx context.Context, params interfaces.CheckoutParams) (*interfaces.Checkout, error) {
	if err := validateAmount(params); err != nil {
		return nil, err
	}
	if err := validateCustomer(params); err != nil {
		return nil, err
	}

	checkout, err := invoke(ctx, p.functions, FunctionCreateBankOrder, params)
	if err != nil {
		return nil, err
	}
	if checkout.Reference == "" {
		return nil, fmt.Errorf("payments: bank order returned no reference")
	}

	p.logger.Info("bank transfer order created",
		"order_id", checkout.OrderID,
		"reference", checkout.Reference,
		"amount_cents", params.AmountCents,
	)
	return checkout, nil
}

// NewProvider resolves a provider by its configured name.
func NewProvider(name string, functions interfaces.Functions, logger interfaces.Logger) (interfaces.CheckoutProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderHosted, "":
		return NewHostedProvider(functions, logger), nil
	case ProviderBankTransfer:
		return NewBankTransferProvider(functions, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnknown, name)
	}
}
