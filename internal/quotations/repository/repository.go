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

// Quotation is the database model for a quotation header.
// SentVia/SentTo are set if and only if the status has reached sent or later;
// only the Mark-Sent storage operation writes them.
type Quotation struct {
	ID                    uuid.UUID  `db:"id"`
	OrganizationID        uuid.UUID  `db:"organization_id"`
	QuotationNumber       string     `db:"quotation_number"`
	Status                string     `db:"status"`
	OpportunityID         *uuid.UUID `db:"opportunity_id"`
	LeadID                *uuid.UUID `db:"lead_id"`
	TicketID              *uuid.UUID `db:"ticket_id"`
	Sequence              int        `db:"sequence"`
	PreviousRejectedCount int        `db:"previous_rejected_count"`
	SentVia               *string    `db:"sent_via"`
	SentTo                *string    `db:"sent_to"`
	RecipientEmail        *string    `db:"recipient_email"`
	RecipientPhone        *string    `db:"recipient_phone"`
	TotalCents            int64      `db:"total_cents"`
	Notes                 *string    `db:"notes"`
	CreatedBy             uuid.UUID  `db:"created_by"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// QuotationItem is the database model for a quotation line item.
type QuotationItem struct {
	ID             uuid.UUID `db:"id"`
	QuotationID    uuid.UUID `db:"quotation_id"`
	Description    string    `db:"description"`
	Quantity       float64   `db:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	SortOrder      int       `db:"sort_order"`
	CreatedAt      time.Time `db:"created_at"`
}

// Aggregate is the full read model the dispatch workflow loads in one pass:
// the quotation, its items, the originating ticket summary, and the creator.
type Aggregate struct {
	Quotation     Quotation
	Items         []QuotationItem
	TicketSubject *string
	TicketStatus  *string
	CreatedByName string
}

// Activity is one entry in the dispatch activity log, written by the
// Mark-Sent storage operation.
type Activity struct {
	ID            uuid.UUID `db:"id"`
	QuotationID   uuid.UUID `db:"quotation_id"`
	Action        string    `db:"action"`
	Channel       *string   `db:"channel"`
	Recipient     *string   `db:"recipient"`
	CorrelationID *string   `db:"correlation_id"`
	IsResend      bool      `db:"is_resend"`
	ActorID       uuid.UUID `db:"actor_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// ListParams contains parameters for listing quotations.
type ListParams struct {
	OrganizationID uuid.UUID
	Status         *string
	Search         string
	Page           int
	PageSize       int
}

// ListResult contains the paginated result of listing quotations.
type ListResult struct {
	Items      []Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ── Repository ────────────────────────────────────────────────────────────────

const quotationNotFoundMsg = "quotation not found"

// Repository provides database operations for quotations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextQuotationNumber atomically generates the next quotation number and
// sequence for an organization.
func (r *Repository) NextQuotationNumber(ctx context.Context, orgID uuid.UUID) (string, int, error) {
	var nextNum int
	query := `
		INSERT INTO quotation_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_number = quotation_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, orgID).Scan(&nextNum); err != nil {
		return "", 0, fmt.Errorf("generate quotation number: %w", err)
	}

	year := time.Now().Year()
	return fmt.Sprintf("QT-%d-%04d", year, nextNum), nextNum, nil
}

// CreateWithItems inserts a quotation and its line items in a single transaction.
func (r *Repository) CreateWithItems(ctx context.Context, quotation *Quotation, items []QuotationItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quotations (
			id, organization_id, quotation_number, status,
			opportunity_id, lead_id, ticket_id,
			sequence, previous_rejected_count,
			recipient_email, recipient_phone, total_cents, notes,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := tx.Exec(ctx, query,
		quotation.ID, quotation.OrganizationID, quotation.QuotationNumber, quotation.Status,
		quotation.OpportunityID, quotation.LeadID, quotation.TicketID,
		quotation.Sequence, quotation.PreviousRejectedCount,
		quotation.RecipientEmail, quotation.RecipientPhone, quotation.TotalCents, quotation.Notes,
		quotation.CreatedBy, quotation.CreatedAt, quotation.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quotation_items (id, quotation_id, description, quantity, unit_price_cents, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.QuotationID, item.Description, item.Quantity, item.UnitPriceCents, item.SortOrder, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert quotation item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a quotation header scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Quotation, error) {
	query := `
		SELECT id, organization_id, quotation_number, status,
		       opportunity_id, lead_id, ticket_id,
		       sequence, previous_rejected_count,
		       sent_via, sent_to, recipient_email, recipient_phone,
		       total_cents, notes, created_by, created_at, updated_at
		FROM quotations
		WHERE id = $1 AND organization_id = $2`

	var q Quotation
	err := r.pool.QueryRow(ctx, query, id, orgID).Scan(
		&q.ID, &q.OrganizationID, &q.QuotationNumber, &q.Status,
		&q.OpportunityID, &q.LeadID, &q.TicketID,
		&q.Sequence, &q.PreviousRejectedCount,
		&q.SentVia, &q.SentTo, &q.RecipientEmail, &q.RecipientPhone,
		&q.TotalCents, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(quotationNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return &q, nil
}

// GetAggregate loads the quotation with its related ticket, items, and
// creator in one read pass.
func (r *Repository) GetAggregate(ctx context.Context, id, orgID uuid.UUID) (*Aggregate, error) {
	query := `
		SELECT q.id, q.organization_id, q.quotation_number, q.status,
		       q.opportunity_id, q.lead_id, q.ticket_id,
		       q.sequence, q.previous_rejected_count,
		       q.sent_via, q.sent_to, q.recipient_email, q.recipient_phone,
		       q.total_cents, q.notes, q.created_by, q.created_at, q.updated_at,
		       t.subject, t.status,
		       COALESCE(u.display_name, '')
		FROM quotations q
		LEFT JOIN tickets t ON t.id = q.ticket_id
		LEFT JOIN users u ON u.id = q.created_by
		WHERE q.id = $1 AND q.organization_id = $2`

	var agg Aggregate
	q := &agg.Quotation
	err := r.pool.QueryRow(ctx, query, id, orgID).Scan(
		&q.ID, &q.OrganizationID, &q.QuotationNumber, &q.Status,
		&q.OpportunityID, &q.LeadID, &q.TicketID,
		&q.Sequence, &q.PreviousRejectedCount,
		&q.SentVia, &q.SentTo, &q.RecipientEmail, &q.RecipientPhone,
		&q.TotalCents, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
		&agg.TicketSubject, &agg.TicketStatus,
		&agg.CreatedByName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(quotationNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("get quotation aggregate: %w", err)
	}

	items, err := r.GetItemsByQuotationID(ctx, id)
	if err != nil {
		return nil, err
	}
	agg.Items = items
	return &agg, nil
}

// GetItemsByQuotationID returns the line items of a quotation in sort order.
func (r *Repository) GetItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]QuotationItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quotation_id, description, quantity, unit_price_cents, sort_order, created_at
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY sort_order ASC`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation items: %w", err)
	}
	defer rows.Close()

	var items []QuotationItem
	for rows.Next() {
		var item QuotationItem
		if err := rows.Scan(&item.ID, &item.QuotationID, &item.Description, &item.Quantity, &item.UnitPriceCents, &item.SortOrder, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SequenceCounters counts the prior quotations in the same sales context,
// matched on opportunity when linked and on lead otherwise. It returns the
// total count and how many of those were rejected.
func (r *Repository) SequenceCounters(ctx context.Context, orgID uuid.UUID, opportunityID, leadID *uuid.UUID) (int, int, error) {
	var query string
	var scope uuid.UUID
	switch {
	case opportunityID != nil:
		query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'rejected')
			FROM quotations WHERE organization_id = $1 AND opportunity_id = $2`
		scope = *opportunityID
	case leadID != nil:
		query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'rejected')
			FROM quotations WHERE organization_id = $1 AND lead_id = $2`
		scope = *leadID
	default:
		return 0, 0, nil
	}

	var total, rejected int
	if err := r.pool.QueryRow(ctx, query, orgID, scope).Scan(&total, &rejected); err != nil {
		return 0, 0, fmt.Errorf("count quotation sequence: %w", err)
	}
	return total, rejected, nil
}

// List retrieves quotations with filtering and pagination.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := `WHERE organization_id = $1`
	args := []any{params.OrganizationID}

	if params.Status != nil {
		args = append(args, *params.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where += fmt.Sprintf(` AND quotation_number ILIKE $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotations `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count quotations: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	query := fmt.Sprintf(`
		SELECT id, organization_id, quotation_number, status,
		       opportunity_id, lead_id, ticket_id,
		       sequence, previous_rejected_count,
		       sent_via, sent_to, recipient_email, recipient_phone,
		       total_cents, notes, created_by, created_at, updated_at
		FROM quotations %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(
			&q.ID, &q.OrganizationID, &q.QuotationNumber, &q.Status,
			&q.OpportunityID, &q.LeadID, &q.TicketID,
			&q.Sequence, &q.PreviousRejectedCount,
			&q.SentVia, &q.SentTo, &q.RecipientEmail, &q.RecipientPhone,
			&q.TotalCents, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListActivities returns the dispatch activity log for a quotation,
// newest first.
func (r *Repository) ListActivities(ctx context.Context, quotationID, orgID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.quotation_id, a.action, a.channel, a.recipient, a.correlation_id, a.is_resend, a.actor_id, a.created_at
		FROM quotation_activities a
		JOIN quotations q ON q.id = a.quotation_id
		WHERE a.quotation_id = $1 AND q.organization_id = $2
		ORDER BY a.created_at DESC`, quotationID, orgID)
	if err != nil {
		return nil, fmt.Errorf("list quotation activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.QuotationID, &a.Action, &a.Channel, &a.Recipient, &a.CorrelationID, &a.IsResend, &a.ActorID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
