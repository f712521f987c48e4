// Package repository provides persistence for support tickets.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ticket is the database model for a support ticket. A ticket is the
// customer-facing thread a quotation is usually created out of; the
// mark-sent storage operation updates its status when a quotation leaves.
type Ticket struct {
	ID             uuid.UUID  `db:"id"`
	OrganizationID uuid.UUID  `db:"organization_id"`
	LeadID         *uuid.UUID `db:"lead_id"`
	Subject        string     `db:"subject"`
	Status         string     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Repository provides database operations for tickets.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new tickets repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves a ticket scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Ticket, error) {
	query := `
		SELECT id, organization_id, lead_id, subject, status, created_at, updated_at
		FROM tickets
		WHERE id = $1 AND organization_id = $2`

	var ticket Ticket
	err := r.pool.QueryRow(ctx, query, id, orgID).Scan(
		&ticket.ID, &ticket.OrganizationID, &ticket.LeadID,
		&ticket.Subject, &ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ticket not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &ticket, nil
}
