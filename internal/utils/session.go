package utils

import (
	"github.com/google/uuid"
)

// GenerateRunID creates a new UUID identifying one trainer run in logs and exports
func GenerateRunID() string {
	return uuid.New().String()
}
