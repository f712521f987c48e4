// Package events defines the domain events exchanged between modules.
package events

import (
	platformevents "salesdesk_backend/platform/events"

	"github.com/google/uuid"
)

// EventNameQuotationSent identifies the QuotationSent event type.
const EventNameQuotationSent = "quotation.sent"

// QuotationSent is published after a quotation dispatch has been recorded by
// the storage layer. Subscribers (e.g. the lead timeline writer) must treat
// delivery as at-most-once and best-effort: the dispatch result never waits
// for them.
type QuotationSent struct {
	platformevents.BaseEvent

	QuotationID     uuid.UUID  `json:"quotationId"`
	OrganizationID  uuid.UUID  `json:"organizationId"`
	QuotationNumber string     `json:"quotationNumber"`
	LeadID          *uuid.UUID `json:"leadId,omitempty"`
	OpportunityID   *uuid.UUID `json:"opportunityId,omitempty"`
	Channel         string     `json:"channel"`
	Recipient       string     `json:"recipient"`
	SequenceLabel   string     `json:"sequenceLabel"`
	IsResend        bool       `json:"isResend"`
	ActorID         uuid.UUID  `json:"actorId"`
	CorrelationID   string     `json:"correlationId"`
}

// EventName returns the unique identifier for this event type.
func (e QuotationSent) EventName() string { return EventNameQuotationSent }
