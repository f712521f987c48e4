// Package service implements lead read operations and timeline writes.
package service

import (
	"context"
	"time"

	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// EventTypeQuotationSent marks a timeline entry written when a quotation
// left for this lead.
const EventTypeQuotationSent = "quotation_sent"

// Service implements lead operations.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a lead.
func (s *Service) GetByID(ctx context.Context, id, orgID uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	return toResponse(lead), nil
}

// Timeline returns a lead's activity timeline, newest first.
func (s *Service) Timeline(ctx context.Context, leadID, orgID uuid.UUID) ([]transport.TimelineEventResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID, orgID); err != nil {
		return nil, err
	}

	events, err := s.repo.ListTimeline(ctx, leadID, orgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list lead timeline", err)
	}

	responses := make([]transport.TimelineEventResponse, 0, len(events))
	for _, e := range events {
		resp := transport.TimelineEventResponse{
			ID:          e.ID,
			EventType:   e.EventType,
			Description: e.Description,
			ActorID:     e.ActorID,
			CreatedAt:   e.CreatedAt,
		}
		if e.CorrelationID != nil {
			resp.CorrelationID = *e.CorrelationID
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// RecordQuotationSent appends a quotation-sent entry to the lead's timeline.
// Called from the event subscriber; failures are logged, never propagated to
// the dispatch caller.
func (s *Service) RecordQuotationSent(ctx context.Context, leadID, actorID uuid.UUID, description, correlationID string) error {
	event := repository.TimelineEvent{
		ID:          uuid.New(),
		LeadID:      leadID,
		EventType:   EventTypeQuotationSent,
		Description: description,
		ActorID:     &actorID,
		CreatedAt:   time.Now(),
	}
	if correlationID != "" {
		event.CorrelationID = &correlationID
	}
	return s.repo.AppendTimelineEvent(ctx, event)
}

func toResponse(lead *repository.Lead) *transport.LeadResponse {
	return &transport.LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Status:    lead.Status,
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}
