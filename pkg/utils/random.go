package utils

import (
	"github.com/google/uuid"
)

// NewLogID returns a random UUID used as an audit log entry id.
func NewLogID() string {
	return uuid.NewString()
}
