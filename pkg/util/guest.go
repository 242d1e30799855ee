package util

import (
	"github.com/google/uuid"
)

// NewGuestID issues an opaque identifier for an anonymous cart owner.
func NewGuestID() string {
	return uuid.New().String()
}
