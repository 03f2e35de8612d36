package domain

import "strings"

// Status represents lifecycle states for agency content entities
type Status string

const (
	// StatusDraft indicates content still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies content available on the public site
	StatusPublished Status = "published"
	// StatusArchived marks content retained for history but not publicly visible
	StatusArchived Status = "archived"
)

// NormalizeStatus coerces arbitrary status strings into a known value,
// defaulting to draft.
func NormalizeStatus(input string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(input)))
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return s
	default:
		return StatusDraft
	}
}

// IsPublished reports whether the status makes an entity publicly visible.
func (s Status) IsPublished() bool {
	return s == StatusPublished
}
