// Package transport defines the request/response DTOs for the leads module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimelineEventResponse is one entry on a lead's activity timeline.
type TimelineEventResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventType     string     `json:"eventType"`
	Description   string     `json:"description"`
	CorrelationID string     `json:"correlationId,omitempty"`
	ActorID       *uuid.UUID `json:"actorId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
