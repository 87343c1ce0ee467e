package utils

import "github.com/google/uuid"

// NewUUID returns a new UUID string for queue items, batches, conflicts
// and trace ids. Version 7 keeps ids time-ordered, which makes queue rows
// and log lines sort chronologically; if the generator fails it falls back
// to a random version 4 id.
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
