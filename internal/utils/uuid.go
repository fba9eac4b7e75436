package utils

import "github.com/google/uuid"

// NewID generates a time-ordered UUID (v7) string for new records.
// V7 IDs sort by creation time, which keeps insertion order stable when a
// backend enumerates records by ID. Falls back to a random v4 UUID if v7
// generation fails.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
