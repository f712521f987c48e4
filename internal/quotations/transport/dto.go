// Package transport defines the request/response DTOs for the quotations module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuotationStatus is the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
	QuotationStatusRevoked  QuotationStatus = "revoked"
)

// Channel is the medium a quotation is dispatched over.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// IsValidChannel reports whether the channel is one of the supported set.
func IsValidChannel(c Channel) bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// CreateQuotationRequest creates a draft quotation.
type CreateQuotationRequest struct {
	OpportunityID  *uuid.UUID             `json:"opportunityId"`
	LeadID         *uuid.UUID             `json:"leadId"`
	TicketID       *uuid.UUID             `json:"ticketId"`
	RecipientEmail string                 `json:"recipientEmail" validate:"omitempty,email"`
	RecipientPhone string                 `json:"recipientPhone"`
	Notes          string                 `json:"notes"`
	Items          []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuotationItemRequest is one line item on a new quotation.
type QuotationItemRequest struct {
	Description    string  `json:"description" validate:"required"`
	Quantity       float64 `json:"quantity" validate:"gt=0"`
	UnitPriceCents int64   `json:"unitPriceCents" validate:"gte=0"`
}

// QuotationItemResponse is the API representation of a line item.
type QuotationItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Description    string    `json:"description"`
	Quantity       float64   `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
	SortOrder      int       `json:"sortOrder"`
}

// QuotationResponse is the API representation of a quotation aggregate.
type QuotationResponse struct {
	ID                    uuid.UUID               `json:"id"`
	QuotationNumber       string                  `json:"quotationNumber"`
	Status                QuotationStatus         `json:"status"`
	OpportunityID         *uuid.UUID              `json:"opportunityId,omitempty"`
	LeadID                *uuid.UUID              `json:"leadId,omitempty"`
	TicketID              *uuid.UUID              `json:"ticketId,omitempty"`
	Sequence              int                     `json:"sequence"`
	PreviousRejectedCount int                     `json:"previousRejectedCount"`
	SequenceLabel         string                  `json:"sequenceLabel"`
	SentVia               *string                 `json:"sentVia,omitempty"`
	SentTo                *string                 `json:"sentTo,omitempty"`
	RecipientEmail        *string                 `json:"recipientEmail,omitempty"`
	RecipientPhone        *string                 `json:"recipientPhone,omitempty"`
	TotalCents            int64                   `json:"totalCents"`
	Notes                 *string                 `json:"notes,omitempty"`
	Items                 []QuotationItemResponse `json:"items"`
	TicketSubject         *string                 `json:"ticketSubject,omitempty"`
	TicketStatus          *string                 `json:"ticketStatus,omitempty"`
	CreatedByName         string                  `json:"createdByName,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
	UpdatedAt             time.Time               `json:"updatedAt"`
}

// ListQuotationsRequest filters and paginates the quotation list.
type ListQuotationsRequest struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// QuotationListResponse is a paginated page of quotations.
type QuotationListResponse struct {
	Items      []QuotationResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// DispatchRequest asks to send a quotation over a channel.
// Recipient overrides the stored recipient address when set.
type DispatchRequest struct {
	Channel   string `json:"channel" validate:"required"`
	Recipient string `json:"recipient"`
	IsResend  bool   `json:"isResend"`
}

// DispatchResponse is the caller-facing result of a successful dispatch.
type DispatchResponse struct {
	Success                bool       `json:"success"`
	Message                string     `json:"message"`
	QuotationStatus        string     `json:"quotationStatus"`
	OldStage               string     `json:"oldStage,omitempty"`
	NewStage               string     `json:"newStage,omitempty"`
	StageChanged           bool       `json:"stageChanged"`
	OpportunityID          *uuid.UUID `json:"opportunityId,omitempty"`
	SequenceLabel          string     `json:"sequenceLabel"`
	PipelineUpdatesCreated int        `json:"pipelineUpdatesCreated"`
	ActivitiesCreated      int        `json:"activitiesCreated"`
	IsResend               bool       `json:"isResend"`
	Channel                string     `json:"channel"`
	Recipient              string     `json:"recipient"`
	WhatsAppLink           string     `json:"whatsappLink,omitempty"`
	FallbackManualSend     bool       `json:"fallbackManualSend"`
	CorrelationID          string     `json:"correlationId"`
}

// ActivityResponse is one entry in a quotation's dispatch activity log.
type ActivityResponse struct {
	ID            uuid.UUID `json:"id"`
	Action        string    `json:"action"`
	Channel       string    `json:"channel,omitempty"`
	Recipient     string    `json:"recipient,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty"`
	IsResend      bool      `json:"isResend"`
	ActorID       uuid.UUID `json:"actorId"`
	CreatedAt     time.Time `json:"createdAt"`
}
