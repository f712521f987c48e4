// Package repository provides persistence for leads and their timeline.
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

// Lead is the database model for a sales lead.
type Lead struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	Name           string    `db:"name"`
	Email          *string   `db:"email"`
	Phone          *string   `db:"phone"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// TimelineEvent is one entry on a lead's activity timeline.
type TimelineEvent struct {
	ID            uuid.UUID `db:"id"`
	LeadID        uuid.UUID `db:"lead_id"`
	EventType     string    `db:"event_type"`
	Description   string    `db:"description"`
	CorrelationID *string   `db:"correlation_id"`
	ActorID       *uuid.UUID `db:"actor_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// Repository provides database operations for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves a lead scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Lead, error) {
	query := `
		SELECT id, organization_id, name, email, phone, status, created_at, updated_at
		FROM leads
		WHERE id = $1 AND organization_id = $2`

	var lead Lead
	err := r.pool.QueryRow(ctx, query, id, orgID).Scan(
		&lead.ID, &lead.OrganizationID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

// AppendTimelineEvent inserts a new timeline entry for a lead.
func (r *Repository) AppendTimelineEvent(ctx context.Context, event TimelineEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_timeline_events (id, lead_id, event_type, description, correlation_id, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.LeadID, event.EventType, event.Description, event.CorrelationID, event.ActorID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append timeline event: %w", err)
	}
	return nil
}

// ListTimeline returns a lead's timeline entries, newest first.
func (r *Repository) ListTimeline(ctx context.Context, leadID, orgID uuid.UUID) ([]TimelineEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.lead_id, e.event_type, e.description, e.correlation_id, e.actor_id, e.created_at
		FROM lead_timeline_events e
		JOIN leads l ON l.id = e.lead_id
		WHERE e.lead_id = $1 AND l.organization_id = $2
		ORDER BY e.created_at DESC`, leadID, orgID)
	if err != nil {
		return nil, fmt.Errorf("list lead timeline: %w", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var e TimelineEvent
		if err := rows.Scan(&e.ID, &e.LeadID, &e.EventType, &e.Description, &e.CorrelationID, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
