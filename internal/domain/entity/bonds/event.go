package bonds

import "time"

type EventType string

const (
	EventCreated EventType = "bond.created"
	EventUpdated EventType = "bond.updated"
)

// Event is emitted after a bond has been persisted.
type Event struct {
	Type       EventType
	Bond       Bond
	OccurredAt time.Time
}
