// Package service provides business logic for opportunities.
package service

import (
	"context"
	"fmt"

	"salesdesk_backend/internal/opportunities/domain"
	"salesdesk_backend/internal/opportunities/repository"
	"salesdesk_backend/internal/opportunities/transport"
	"salesdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// ErrCodeInvalidStageTransition is the stable code returned when a requested
// stage change is not in the transition table.
const ErrCodeInvalidStageTransition = "INVALID_STATUS_TRANSITION"

// Service provides business logic for opportunities.
type Service struct {
	repo *repository.Repository
}

// New creates a new opportunities service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves an opportunity with its stage history.
func (s *Service) GetByID(ctx context.Context, id, tenantID uuid.UUID) (*transport.OpportunityResponse, error) {
	opp, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.GetStageHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	return buildResponse(opp, history), nil
}

// NextStages returns the legal transitions for an opportunity's current stage.
// UI code is a pure consumer of this output; it must not re-derive the rules.
func (s *Service) NextStages(ctx context.Context, id, tenantID uuid.UUID) (*transport.NextStagesResponse, error) {
	opp, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	next := domain.NextStages(domain.Stage(opp.Stage))
	stages := make([]string, len(next))
	for i, stage := range next {
		stages[i] = string(stage)
	}

	return &transport.NextStagesResponse{
		Current:    opp.Stage,
		NextStages: stages,
	}, nil
}

// ChangeStage moves an opportunity to a new stage, gated by the transition rules.
func (s *Service) ChangeStage(ctx context.Context, id, tenantID, actorID uuid.UUID, req transport.ChangeStageRequest) (*transport.OpportunityResponse, error) {
	target := domain.Stage(req.Stage)
	if !domain.IsKnown(target) {
		return nil, apperr.Validation(fmt.Sprintf("unknown stage %q", req.Stage))
	}

	opp, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	current := domain.Stage(opp.Stage)
	if !domain.CanTransition(current, target) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot move opportunity from %q to %q", current, target)).
			WithCode(ErrCodeInvalidStageTransition)
	}

	if err := s.repo.UpdateStage(ctx, id, tenantID, string(target), domain.IsTerminal(target), actorID); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id, tenantID)
}

func buildResponse(opp *repository.Opportunity, history []repository.StageChange) *transport.OpportunityResponse {
	historyResp := make([]transport.StageChangeResponse, len(history))
	for i, change := range history {
		historyResp[i] = transport.StageChangeResponse{
			Stage:     change.Stage,
			ChangedBy: change.ChangedBy,
			ChangedAt: change.ChangedAt,
		}
	}

	return &transport.OpportunityResponse{
		ID:           opp.ID,
		LeadID:       opp.LeadID,
		Name:         opp.Name,
		Stage:        opp.Stage,
		OwnerID:      opp.OwnerID,
		ClosedAt:     opp.ClosedAt,
		StageHistory: historyResp,
		CreatedAt:    opp.CreatedAt,
		UpdatedAt:    opp.UpdatedAt,
	}
}
