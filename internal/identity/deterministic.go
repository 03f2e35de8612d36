package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// Reference produces a short human-facing code from a stable key, suitable
// for quote numbers and bank-transfer order references.
func Reference(key string) string {
	uid := UUID(key)
	if uid == uuid.Nil {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(uid.String(), "-", "")[:8])
}

func QuoteReference(quoteID uuid.UUID) string {
	return "Q-" + Reference("agency:quote:"+quoteID.String())
}

func OrderReference(orderID uuid.UUID) string {
	return "BT-" + Reference("agency:bank-order:"+orderID.String())
}

func SettingUUID(key string) uuid.UUID {
	return UUID("agency:setting:" + strings.ToLower(strings.TrimSpace(key)))
}
