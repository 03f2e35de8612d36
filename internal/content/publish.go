package content

import (
	"time"

	"github.com/agencykit/cms/internal/domain"
)

// PublishStamp resolves the published_at value after a status change.
// The timestamp is set only when the record transitions into published;
// an already-published record keeps its original stamp, and moving out of
// published clears it.
func PublishStamp(current, target domain.Status, publishedAt *time.Time, now time.Time) *time.Time {
	switch {
	case target == domain.StatusPublished && current != domain.StatusPublished:
		stamp := now
		return &stamp
	case target == domain.StatusPublished:
		return publishedAt
	default:
		return nil
	}
}
