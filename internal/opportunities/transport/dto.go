// Package transport defines the request/response DTOs for the opportunities module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// OpportunityResponse is the API representation of an opportunity.
type OpportunityResponse struct {
	ID           uuid.UUID             `json:"id"`
	LeadID       *uuid.UUID            `json:"leadId,omitempty"`
	Name         string                `json:"name"`
	Stage        string                `json:"stage"`
	OwnerID      uuid.UUID             `json:"ownerId"`
	ClosedAt     *time.Time            `json:"closedAt,omitempty"`
	StageHistory []StageChangeResponse `json:"stageHistory"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// StageChangeResponse is one stage history entry.
type StageChangeResponse struct {
	Stage     string     `json:"stage"`
	ChangedBy *uuid.UUID `json:"changedBy,omitempty"`
	ChangedAt time.Time  `json:"changedAt"`
}

// NextStagesResponse lists the legal transitions out of the current stage.
type NextStagesResponse struct {
	Current    string   `json:"current"`
	NextStages []string `json:"nextStages"`
}

// ChangeStageRequest asks to move an opportunity to a new stage.
type ChangeStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}
