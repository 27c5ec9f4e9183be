package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique id for a generator run, used as the log correlation id
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
