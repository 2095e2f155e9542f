package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces a new unique identifier on every call.
type Generator interface {
	NewID() string
}

// UUIDGenerator yields random (v4) UUIDs without dashes, 32 hex characters.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
