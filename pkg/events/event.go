package events

import "time"

// Event defines the contract for everything the tracker publishes.
type Event interface {
	// EventType returns the unique code for this event (e.g. "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes emitted by the session tracker.
const (
	TypeTrackerStarted = "TRACKER_STARTED"
	TypeTrackerStopped = "TRACKER_STOPPED"
	TypeSessionStarted = "SESSION_STARTED"
	TypeSessionEnded   = "SESSION_ENDED"
	TypeIdle           = "IDLE"
	TypeActive         = "ACTIVE"
	TypeTrackerError   = "TRACKER_ERROR"
	TypeConfigUpdated  = "CONFIG_UPDATED"
)

// BaseEvent is the concrete carrier used for all tracker events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an event stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
