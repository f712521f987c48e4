// Package transport defines the response DTOs for the tickets module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// TicketResponse is the API representation of a support ticket.
type TicketResponse struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	Subject   string     `json:"subject"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
