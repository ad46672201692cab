package common

import "github.com/oklog/ulid/v2"

// NewULID returns a monotonic, time-ordered id (26 chars).
func NewULID() string {
	return ulid.Make().String()
}
