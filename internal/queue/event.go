// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that move them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventsQueue is the durable queue every domain event is routed to.
const EventsQueue = "agency.events"

// Event types published by the services.
const (
	UserRegistered        = "user.registered"
	PasswordReset         = "user.password_reset"
	BookingCreated        = "booking.created"
	BookingStatusChanged  = "booking.status_changed"
	QueryCreated          = "query.created"
	QueryStatusChanged    = "query.status_changed"
	ReviewCreated         = "review.created"
	ReviewApprovalChanged = "review.approval_changed"
)

// Event is published after a state change so downstream consumers can log,
// notify the team, or feed analytics without querying the primary
// database.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	SubjectID  uint64            `json:"subject_id"`
	ActorID    uint64            `json:"actor_id,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt string            `json:"occurred_at"`
}

// NewEvent stamps a fresh id and time on an event.
func NewEvent(typ string, subjectID, actorID uint64, data map[string]string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		SubjectID:  subjectID,
		ActorID:    actorID,
		Data:       data,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
