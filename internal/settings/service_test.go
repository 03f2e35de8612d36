package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/agencykit/cms/internal/querycache"
)

func newTestService(t *testing.T, store Store, opts ...ServiceOption) Service {
	t.Helper()
	cache := querycache.New()
	t.Cleanup(cache.Stop)
	return NewService(store, cache, opts...)
}

func TestContactInfoFallsBackToDefaults(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	info := svc.ContactInfo(context.Background())
	if info.Email != DefaultContactInfo().Email {
		t.Fatalf("expected default email, got %q", info.Email)
	}
}

func TestContactInfoReadsStoredValue(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	payload := json.RawMessage(`{"email":"team@agency.test","phone":"+1 555 0100"}`)
	if err := svc.Set(ctx, KeyContactInfo, payload); err != nil {
		t.Fatalf("set: %v", err)
	}

	info := svc.ContactInfo(ctx)
	if info.Email != "team@agency.test" || info.Phone != "+1 555 0100" {
		t.Fatalf("unexpected contact info %+v", info)
	}
}

func TestDefaultsServedWhenStoreUnavailable(t *testing.T) {
	store := NewMemoryStore()
	store.FailReads = true
	svc := newTestService(t, store)

	seo := svc.SEODefaults(context.Background())
	if seo.TitleSuffix != DefaultSEODefaults().TitleSuffix {
		t.Fatalf("expected default SEO on store failure, got %+v", seo)
	}

	payments := svc.PaymentSettings(context.Background())
	if payments.Provider != "hosted" || payments.Currency != "USD" {
		t.Fatalf("expected default payment settings, got %+v", payments)
	}
}

func TestSetRejectsInvalidPayloads(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())
	ctx := context.Background()

	// missing required email
	if err := svc.Set(ctx, KeyContactInfo, json.RawMessage(`{"phone":"555"}`)); err == nil {
		t.Fatalf("expected schema rejection for missing email")
	}
	// unknown property
	if err := svc.Set(ctx, KeySEODefaults, json.RawMessage(`{"bogus":true}`)); err == nil {
		t.Fatalf("expected schema rejection for unknown property")
	}
	// provider outside enum
	if err := svc.Set(ctx, KeyPaymentSettings, json.RawMessage(`{"provider":"paypal"}`)); err == nil {
		t.Fatalf("expected schema rejection for unknown provider")
	}
	// not JSON at all
	if err := svc.Set(ctx, KeyContactInfo, json.RawMessage(`{"email"`)); err == nil {
		t.Fatalf("expected rejection for malformed JSON")
	}
}

func TestSetRejectsUnknownKeys(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	err := svc.Set(context.Background(), "feature_flags", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestSetInvalidatesCachedValue(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(t, store, WithTTL(time.Hour))
	ctx := context.Background()

	if err := svc.Set(ctx, KeyContactInfo, json.RawMessage(`{"email":"v1@agency.test"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if info := svc.ContactInfo(ctx); info.Email != "v1@agency.test" {
		t.Fatalf("expected v1, got %q", info.Email)
	}

	// write bypassing the service does not show up while cached
	if err := store.Set(ctx, KeyContactInfo, json.RawMessage(`{"email":"direct@agency.test"}`)); err != nil {
		t.Fatalf("direct set: %v", err)
	}
	if info := svc.ContactInfo(ctx); info.Email != "direct@agency.test" {
		// cached value still served
		if info.Email != "v1@agency.test" {
			t.Fatalf("unexpected cached value %q", info.Email)
		}
	}

	// a service write invalidates and the next read sees fresh data
	if err := svc.Set(ctx, KeyContactInfo, json.RawMessage(`{"email":"v2@agency.test"}`)); err != nil {
		t.Fatalf("set v2: %v", err)
	}
	if info := svc.ContactInfo(ctx); info.Email != "v2@agency.test" {
		t.Fatalf("expected v2 after invalidation, got %q", info.Email)
	}
}
