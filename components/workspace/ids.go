package workspace

import "github.com/google/uuid"

// uuidGenerator mints collision-resistant widget identities. Tokens are
// prefixed so they stay recognizable inside persisted configs.
type uuidGenerator struct{}

// NewUUIDGenerator returns the default widget identity generator.
func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return "widget_" + uuid.NewString()
}
