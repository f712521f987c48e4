// Package service implements ticket read operations.
package service

import (
	"context"

	"salesdesk_backend/internal/tickets/repository"
	"salesdesk_backend/internal/tickets/transport"

	"github.com/google/uuid"
)

// Service implements ticket operations.
type Service struct {
	repo *repository.Repository
}

// New creates a new tickets service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a ticket.
func (s *Service) GetByID(ctx context.Context, id, orgID uuid.UUID) (*transport.TicketResponse, error) {
	ticket, err := s.repo.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	return &transport.TicketResponse{
		ID:        ticket.ID,
		LeadID:    ticket.LeadID,
		Subject:   ticket.Subject,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}, nil
}
