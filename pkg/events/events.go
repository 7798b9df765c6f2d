package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PLAN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

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

const (
	TypeUserLogin     = "USER_LOGIN"
	TypeUserRegister  = "USER_REGISTER"
	TypePlanCompleted = "PLAN_COMPLETED"
	TypePlanFailed    = "PLAN_FAILED"
)

// NewPlanCompleted reports a successful pipeline run for the audit bus.
func NewPlanCompleted(userId, destination string, days int) BaseEvent {
	return BaseEvent{
		Type: TypePlanCompleted,
		Data: map[string]interface{}{
			"user_id":     userId,
			"destination": destination,
			"days":        days,
		},
		OccurredAt: time.Now(),
	}
}

// NewPlanFailed reports an exhausted or aborted pipeline run.
func NewPlanFailed(userId, destination, reason string) BaseEvent {
	return BaseEvent{
		Type: TypePlanFailed,
		Data: map[string]interface{}{
			"user_id":     userId,
			"destination": destination,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}
