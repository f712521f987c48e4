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

// ── Domain Models ─────────────────────────────────────────────────────────────

// Opportunity is the database model for a sales-pipeline record.
type Opportunity struct {
	ID             uuid.UUID  `db:"id"`
	OrganizationID uuid.UUID  `db:"organization_id"`
	LeadID         *uuid.UUID `db:"lead_id"`
	Name           string     `db:"name"`
	Stage          string     `db:"stage"`
	OwnerID        uuid.UUID  `db:"owner_id"`
	ClosedAt       *time.Time `db:"closed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// StageChange is one append-only entry in an opportunity's stage history.
type StageChange struct {
	ID            uuid.UUID  `db:"id"`
	OpportunityID uuid.UUID  `db:"opportunity_id"`
	Stage         string     `db:"stage"`
	ChangedBy     *uuid.UUID `db:"changed_by"`
	ChangedAt     time.Time  `db:"changed_at"`
}

// ── Repository ────────────────────────────────────────────────────────────────

const opportunityNotFoundMsg = "opportunity not found"

// Repository provides database operations for opportunities.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new opportunities repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves an opportunity scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Opportunity, error) {
	query := `
		SELECT id, organization_id, lead_id, name, stage, owner_id, closed_at, created_at, updated_at
		FROM opportunities
		WHERE id = $1 AND organization_id = $2`

	var o Opportunity
	err := r.pool.QueryRow(ctx, query, id, orgID).Scan(
		&o.ID, &o.OrganizationID, &o.LeadID, &o.Name, &o.Stage,
		&o.OwnerID, &o.ClosedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(opportunityNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return &o, nil
}

// GetStageHistory returns the append-only stage history, oldest first.
func (r *Repository) GetStageHistory(ctx context.Context, opportunityID uuid.UUID) ([]StageChange, error) {
	query := `
		SELECT id, opportunity_id, stage, changed_by, changed_at
		FROM opportunity_stage_history
		WHERE opportunity_id = $1
		ORDER BY changed_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("get stage history: %w", err)
	}
	defer rows.Close()

	var history []StageChange
	for rows.Next() {
		var change StageChange
		if err := rows.Scan(&change.ID, &change.OpportunityID, &change.Stage, &change.ChangedBy, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan stage history: %w", err)
		}
		history = append(history, change)
	}
	return history, rows.Err()
}

// UpdateStage sets the new stage and appends the history entry in one
// transaction. The current stage must equal the last history entry at all
// times, so both writes commit or neither does.
func (r *Repository) UpdateStage(ctx context.Context, id, orgID uuid.UUID, stage string, closed bool, actorID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin stage update: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var closedAt *time.Time
	if closed {
		closedAt = &now
	}

	tag, err := tx.Exec(ctx, `
		UPDATE opportunities
		SET stage = $1, closed_at = $2, updated_at = $3
		WHERE id = $4 AND organization_id = $5`,
		stage, closedAt, now, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("update opportunity stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(opportunityNotFoundMsg)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO opportunity_stage_history (id, opportunity_id, stage, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), id, stage, actorID, now,
	); err != nil {
		return fmt.Errorf("append stage history: %w", err)
	}

	return tx.Commit(ctx)
}
