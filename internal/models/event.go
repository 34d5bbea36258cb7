package models

import "time"

// Event is read-only from the booth's perspective; it is owned by the
// surrounding CMS and only referenced here.
type Event struct {
	ID          string
	Title       string
	AutoApprove bool
	FrameURL    *string
	Published   bool
	CreatedAt   time.Time
}

// ParseAutoApprove normalizes the loosely-typed stored flag. Legacy rows
// carry "1", "true" or "0"; anything unrecognized counts as disabled.
func ParseAutoApprove(raw string) bool {
	switch raw {
	case "1", "true":
		return true
	default:
		return false
	}
}
