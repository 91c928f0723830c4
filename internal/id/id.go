package id

import "github.com/google/uuid"

// NewSessionID returns a globally unique identifier for a quiz session.
func NewSessionID() string {
	return uuid.NewString()
}
