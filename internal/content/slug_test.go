package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agencykit/cms/internal/content"
	"github.com/agencykit/cms/internal/domain"
)

func existsIn(taken ...string) content.SlugExists {
	set := map[string]struct{}{}
	for _, s := range taken {
		set[s] = struct{}{}
	}
	return func(_ context.Context, candidate string) (bool, error) {
		_, ok := set[candidate]
		return ok, nil
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	got, err := content.UniqueSlug(context.Background(), "summer-campaign", existsIn())
	if err != nil {
		t.Fatalf("unique slug: %v", err)
	}
	if got != "summer-campaign" {
		t.Fatalf("expected base slug back, got %q", got)
	}
}

func TestUniqueSlugAppendsNumericSuffixes(t *testing.T) {
	got, err := content.UniqueSlug(context.Background(), "rebrand", existsIn("rebrand"))
	if err != nil {
		t.Fatalf("unique slug: %v", err)
	}
	if got != "rebrand-2" {
		t.Fatalf("expected rebrand-2 got %q", got)
	}

	got, err = content.UniqueSlug(context.Background(), "rebrand", existsIn("rebrand", "rebrand-2"))
	if err != nil {
		t.Fatalf("unique slug: %v", err)
	}
	if got != "rebrand-3" {
		t.Fatalf("expected rebrand-3 got %q", got)
	}
}

func TestUniqueSlugPropagatesProbeErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := content.UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestSlugifyNormalizesTitles(t *testing.T) {
	cases := map[string]string{
		"Our New Office": "our-new-office",
		"  Spaced Out  ": "spaced-out",
		"Already-a-slug": "already-a-slug",
	}
	for title, want := range cases {
		if got := content.Slugify(title); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestPublishStampSetOnTransitionOnly(t *testing.T) {
	now := time.Unix(5000, 0)

	stamp := content.PublishStamp(domain.StatusDraft, domain.StatusPublished, nil, now)
	if stamp == nil || !stamp.Equal(now) {
		t.Fatalf("expected stamp at %v got %v", now, stamp)
	}

	later := now.Add(time.Hour)
	kept := content.PublishStamp(domain.StatusPublished, domain.StatusPublished, stamp, later)
	if kept != stamp {
		t.Fatalf("expected original stamp kept, got %v", kept)
	}

	cleared := content.PublishStamp(domain.StatusPublished, domain.StatusDraft, stamp, later)
	if cleared != nil {
		t.Fatalf("expected stamp cleared on unpublish, got %v", cleared)
	}
}
