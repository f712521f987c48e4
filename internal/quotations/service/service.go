// Package service implements the quotation business logic, including the
// dispatch workflow that sends a quotation over a channel and synchronizes
// the surrounding pipeline records.
package service

import (
	"context"
	"time"

	"salesdesk_backend/internal/quotations/repository"
	"salesdesk_backend/internal/quotations/storageops"
	"salesdesk_backend/internal/quotations/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/events"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the persistence surface the service consumes.
type Repository interface {
	NextQuotationNumber(ctx context.Context, orgID uuid.UUID) (string, int, error)
	CreateWithItems(ctx context.Context, quotation *repository.Quotation, items []repository.QuotationItem) error
	GetAggregate(ctx context.Context, id, orgID uuid.UUID) (*repository.Aggregate, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	ListActivities(ctx context.Context, quotationID, orgID uuid.UUID) ([]repository.Activity, error)
	SequenceCounters(ctx context.Context, orgID uuid.UUID, opportunityID, leadID *uuid.UUID) (int, int, error)
}

// StorageOps is the two-operation dispatch contract with the storage layer.
// Preflight is read-only; MarkSent is the single atomic commit.
type StorageOps interface {
	DispatchPreflight(ctx context.Context, quotationID, orgID uuid.UUID, correlationID string) (*storageops.PreflightVerdict, error)
	MarkSent(ctx context.Context, params storageops.MarkSentParams) (*storageops.MarkSentResult, error)
}

// DispatchMailer sends the quotation email. When no outbound transport is
// configured the dispatch workflow records the send anyway and asks the
// operator to deliver the document manually.
type DispatchMailer interface {
	IsConfigured() bool
	SendQuotation(ctx context.Context, input SendQuotationInput) error
}

// SendQuotationInput carries everything the mail template needs.
type SendQuotationInput struct {
	To              string
	QuotationNumber string
	SequenceLabel   string
	TotalCents      int64
	TicketSubject   string
	Notes           string
	CorrelationID   string
}

// WhatsAppComposer builds a click-to-chat link carrying a prefilled
// quotation message. No network call is involved.
type WhatsAppComposer interface {
	QuotationLink(phoneNumber string, input WhatsAppLinkInput) (string, error)
}

// WhatsAppLinkInput carries the fields rendered into the prefilled message.
type WhatsAppLinkInput struct {
	QuotationNumber string
	SequenceLabel   string
	TotalCents      int64
}

// Service implements quotation operations.
type Service struct {
	repo     Repository
	ops      StorageOps
	mailer   DispatchMailer
	whatsapp WhatsAppComposer
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new quotations service.
func New(repo Repository, ops StorageOps, mailer DispatchMailer, whatsapp WhatsAppComposer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		ops:      ops,
		mailer:   mailer,
		whatsapp: whatsapp,
		bus:      bus,
		log:      log,
	}
}

// Create creates a draft quotation with its line items.
func (s *Service) Create(ctx context.Context, orgID, userID uuid.UUID, req transport.CreateQuotationRequest) (*transport.QuotationResponse, error) {
	var recipientPhone *string
	if req.RecipientPhone != "" {
		normalized := phone.NormalizeE164(req.RecipientPhone)
		recipientPhone = &normalized
	}

	number, _, err := s.repo.NextQuotationNumber(ctx, orgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to allocate quotation number", err)
	}

	total, sequence, rejected, err := s.sequenceContext(ctx, orgID, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quotation := &repository.Quotation{
		ID:                    uuid.New(),
		OrganizationID:        orgID,
		QuotationNumber:       number,
		Status:                string(transport.QuotationStatusDraft),
		OpportunityID:         req.OpportunityID,
		LeadID:                req.LeadID,
		TicketID:              req.TicketID,
		Sequence:              sequence,
		PreviousRejectedCount: rejected,
		RecipientPhone:        recipientPhone,
		TotalCents:            total,
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if req.RecipientEmail != "" {
		quotation.RecipientEmail = &req.RecipientEmail
	}
	if req.Notes != "" {
		quotation.Notes = &req.Notes
	}

	items := make([]repository.QuotationItem, 0, len(req.Items))
	for i, item := range req.Items {
		items = append(items, repository.QuotationItem{
			ID:             uuid.New(),
			QuotationID:    quotation.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SortOrder:      i,
			CreatedAt:      now,
		})
	}

	if err := s.repo.CreateWithItems(ctx, quotation, items); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create quotation", err)
	}

	s.log.Info("quotation_created",
		"quotation_id", quotation.ID.String(),
		"quotation_number", quotation.QuotationNumber,
		"sequence", quotation.Sequence,
	)

	agg := &repository.Aggregate{Quotation: *quotation, Items: items}
	return buildResponse(agg), nil
}

// sequenceContext computes the line total and the quotation's position
// within its opportunity or lead context.
func (s *Service) sequenceContext(ctx context.Context, orgID uuid.UUID, req transport.CreateQuotationRequest) (int64, int, int, error) {
	var total int64
	for _, item := range req.Items {
		total += int64(item.Quantity * float64(item.UnitPriceCents))
	}

	priorTotal, priorRejected, err := s.repo.SequenceCounters(ctx, orgID, req.OpportunityID, req.LeadID)
	if err != nil {
		return 0, 0, 0, apperr.Wrap(apperr.KindInternal, "failed to determine quotation sequence", err)
	}
	return total, priorTotal + 1, priorRejected, nil
}

// GetByID retrieves a quotation aggregate.
func (s *Service) GetByID(ctx context.Context, id, orgID uuid.UUID) (*transport.QuotationResponse, error) {
	agg, err := s.repo.GetAggregate(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	return buildResponse(agg), nil
}

// List retrieves quotations with filtering and pagination.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, req transport.ListQuotationsRequest) (*transport.QuotationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	params := repository.ListParams{
		OrganizationID: orgID,
		Search:         req.Search,
		Page:           page,
		PageSize:       pageSize,
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list quotations", err)
	}

	items := make([]transport.QuotationResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *buildResponse(&repository.Aggregate{Quotation: result.Items[i]}))
	}

	return &transport.QuotationListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListActivities returns the dispatch activity log for a quotation.
func (s *Service) ListActivities(ctx context.Context, quotationID, orgID uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.repo.GetAggregate(ctx, quotationID, orgID); err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, quotationID, orgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list quotation activities", err)
	}

	responses := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp := transport.ActivityResponse{
			ID:        a.ID,
			Action:    a.Action,
			IsResend:  a.IsResend,
			ActorID:   a.ActorID,
			CreatedAt: a.CreatedAt,
		}
		if a.Channel != nil {
			resp.Channel = *a.Channel
		}
		if a.Recipient != nil {
			resp.Recipient = *a.Recipient
		}
		if a.CorrelationID != nil {
			resp.CorrelationID = *a.CorrelationID
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func buildResponse(agg *repository.Aggregate) *transport.QuotationResponse {
	q := agg.Quotation
	resp := &transport.QuotationResponse{
		ID:                    q.ID,
		QuotationNumber:       q.QuotationNumber,
		Status:                transport.QuotationStatus(q.Status),
		OpportunityID:         q.OpportunityID,
		LeadID:                q.LeadID,
		TicketID:              q.TicketID,
		Sequence:              q.Sequence,
		PreviousRejectedCount: q.PreviousRejectedCount,
		SequenceLabel:         SequenceLabel(q.Sequence, q.PreviousRejectedCount),
		SentVia:               q.SentVia,
		SentTo:                q.SentTo,
		RecipientEmail:        q.RecipientEmail,
		RecipientPhone:        q.RecipientPhone,
		TotalCents:            q.TotalCents,
		Notes:                 q.Notes,
		TicketSubject:         agg.TicketSubject,
		TicketStatus:          agg.TicketStatus,
		CreatedByName:         agg.CreatedByName,
		CreatedAt:             q.CreatedAt,
		UpdatedAt:             q.UpdatedAt,
	}

	resp.Items = make([]transport.QuotationItemResponse, 0, len(agg.Items))
	for _, item := range agg.Items {
		resp.Items = append(resp.Items, transport.QuotationItemResponse{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: int64(item.Quantity * float64(item.UnitPriceCents)),
			SortOrder:      item.SortOrder,
		})
	}
	return resp
}
