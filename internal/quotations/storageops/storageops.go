// Package storageops wraps the two storage-side operations the dispatch
// workflow consumes: Preflight and Mark-Sent. Both are PL/pgSQL functions
// executed in a single round trip; this package treats their JSON verdicts
// as opaque contracts and never reimplements their internals.
package storageops

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreflightVerdict is the transient result of the read-only integrity check
// that runs before any mutating dispatch.
type PreflightVerdict struct {
	CanProceed            bool       `json:"can_proceed"`
	NeedsRepair           bool       `json:"needs_repair"`
	RepairFailed          bool       `json:"repair_failed"`
	OpportunityID         *uuid.UUID `json:"opportunity_id,omitempty"`
	ResolvedOpportunityID *uuid.UUID `json:"resolved_opportunity_id,omitempty"`
	OrphanOpportunityID   *uuid.UUID `json:"orphan_opportunity_id,omitempty"`
	ResolutionSource      string     `json:"resolution_source,omitempty"`
	OpportunityStage      string     `json:"opportunity_stage,omitempty"`
	Error                 string     `json:"error,omitempty"`
	ErrorCode             string     `json:"error_code,omitempty"`
}

// MarkSentParams is the input of the atomic Mark-Sent operation.
// AllowAutocreate controls the storage-side orphan-repair fallback that
// fabricates a replacement opportunity; the dispatch workflow always passes
// false — auto-creation is never an acceptable outcome of a send action.
type MarkSentParams struct {
	QuotationID     uuid.UUID
	OrganizationID  uuid.UUID
	SentVia         string
	SentTo          string
	ActorUserID     uuid.UUID
	CorrelationID   string
	AllowAutocreate bool
}

// MarkSentResult is the output of the atomic Mark-Sent operation. On success
// it reports how the four related records were synchronized; on failure it
// carries a stable error code for the classifier.
type MarkSentResult struct {
	Success                bool       `json:"success"`
	QuotationStatus        string     `json:"quotation_status,omitempty"`
	OldStage               string     `json:"old_stage,omitempty"`
	NewStage               string     `json:"new_stage,omitempty"`
	TicketStatus           string     `json:"ticket_status,omitempty"`
	LeadStatus             string     `json:"lead_status,omitempty"`
	OpportunityID          *uuid.UUID `json:"opportunity_id,omitempty"`
	OpportunitySource      string     `json:"opportunity_source,omitempty"`
	PipelineUpdatesCreated int        `json:"pipeline_updates_created"`
	ActivitiesCreated      int        `json:"activities_created"`
	QuotationSequence      int        `json:"quotation_sequence"`
	PreviousRejectedCount  int        `json:"previous_rejected_count"`
	IsResend               bool       `json:"is_resend"`
	Error                  string     `json:"error,omitempty"`
	ErrorCode              string     `json:"error_code,omitempty"`
	QuotationOpportunityID *uuid.UUID `json:"quotation_opportunity_id,omitempty"`
}

// Ops executes the storage-side dispatch operations against Postgres.
type Ops struct {
	pool *pgxpool.Pool
}

// New creates the storage operations client.
func New(pool *pgxpool.Pool) *Ops {
	return &Ops{pool: pool}
}

// DispatchPreflight runs the read-only integrity check for a quotation's
// opportunity reference. Exactly one round trip; no writes.
func (o *Ops) DispatchPreflight(ctx context.Context, quotationID, orgID uuid.UUID, correlationID string) (*PreflightVerdict, error) {
	var raw []byte
	err := o.pool.QueryRow(ctx,
		`SELECT quotation_dispatch_preflight($1, $2, $3)`,
		quotationID, orgID, correlationID,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("preflight call: %w", err)
	}

	var verdict PreflightVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return nil, fmt.Errorf("decode preflight verdict: %w", err)
	}
	return &verdict, nil
}

// MarkSent records the send and synchronizes the quotation, opportunity,
// ticket, and lead in one storage-side transaction. Idempotency for repeat
// sends is guaranteed at this boundary, keyed on quotation and channel.
func (o *Ops) MarkSent(ctx context.Context, params MarkSentParams) (*MarkSentResult, error) {
	var raw []byte
	err := o.pool.QueryRow(ctx,
		`SELECT quotation_mark_sent($1, $2, $3, $4, $5, $6, $7)`,
		params.QuotationID, params.OrganizationID, params.SentVia, params.SentTo,
		params.ActorUserID, params.CorrelationID, params.AllowAutocreate,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("mark-sent call: %w", err)
	}

	var result MarkSentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode mark-sent result: %w", err)
	}
	return &result, nil
}
