package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"
)

// ErrSlugExhausted is returned when the uniqueness probe gives up.
var ErrSlugExhausted = errors.New("content: could not find a unique slug")

// maxSlugProbes bounds the suffix loop so a pathological table cannot spin
// the service forever.
const maxSlugProbes = 1000

// SlugExists reports whether a candidate slug is already taken in the
// caller's table.
type SlugExists func(ctx context.Context, candidate string) (bool, error)

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// Slugify derives a slug from a title, falling back to a trimmed lowercase
// form when normalization fails.
func Slugify(title string) string {
	normalized, err := NormalizeSlug(title)
	if err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(title))
}

// UniqueSlug probes the table for the first free slug: base, then base-2,
// base-3, and so on. Uniqueness is per table, enforced by the exists probe.
func UniqueSlug(ctx context.Context, base string, exists SlugExists) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("content: slug base is required")
	}

	candidate := base
	for n := 2; n <= maxSlugProbes; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", ErrSlugExhausted
}
