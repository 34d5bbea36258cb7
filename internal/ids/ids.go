package ids

import "github.com/segmentio/ksuid"

// New returns a time-sortable identifier for new photos and tasks.
func New() string {
	return ksuid.New().String()
}
