package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	a := UUID("agency:test:alpha")
	b := UUID("agency:test:alpha")
	if a != b {
		t.Fatalf("same key produced %s and %s", a, b)
	}
	if a == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if UUID("agency:test:beta") == a {
		t.Fatal("different keys collided")
	}
}

func TestUUIDEmptyKeyIsNil(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("blank key should map to uuid.Nil")
	}
}

func TestQuoteReferenceFormat(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	ref := QuoteReference(id)
	if !strings.HasPrefix(ref, "Q-") || len(ref) != 10 {
		t.Fatalf("unexpected quote reference %q", ref)
	}
	if ref != QuoteReference(id) {
		t.Fatal("quote reference not stable")
	}
	if ref[2:] != strings.ToUpper(ref[2:]) {
		t.Fatalf("reference should be uppercase: %q", ref)
	}
}

func TestOrderReferenceDiffersFromQuoteReference(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	order := OrderReference(id)
	if !strings.HasPrefix(order, "BT-") || len(order) != 11 {
		t.Fatalf("unexpected order reference %q", order)
	}
	if order[3:] == QuoteReference(id)[2:] {
		t.Fatal("order and quote references should not share codes for one id")
	}
}

func TestSettingUUIDNormalizesKey(t *testing.T) {
	if SettingUUID("Contact_Info") != SettingUUID("  contact_info ") {
		t.Fatal("setting key normalization failed")
	}
}
