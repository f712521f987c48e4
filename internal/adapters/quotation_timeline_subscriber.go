package adapters

import (
	"context"
	"fmt"

	domainevents "salesdesk_backend/internal/events"
	leadsvc "salesdesk_backend/internal/leads/service"
	"salesdesk_backend/platform/events"
	"salesdesk_backend/platform/logger"
)

// QuotationTimelineSubscriber writes a lead timeline entry whenever a
// quotation dispatch is recorded. Runs on the event bus, off the dispatch
// request path; failures are logged and never reach the dispatch caller.
type QuotationTimelineSubscriber struct {
	leads *leadsvc.Service
	log   *logger.Logger
}

// NewQuotationTimelineSubscriber creates the subscriber and registers it on
// the bus.
func NewQuotationTimelineSubscriber(bus events.Bus, leads *leadsvc.Service, log *logger.Logger) *QuotationTimelineSubscriber {
	s := &QuotationTimelineSubscriber{leads: leads, log: log}
	bus.Subscribe(domainevents.EventNameQuotationSent, s)
	return s
}

// Handle processes a QuotationSent event.
func (s *QuotationTimelineSubscriber) Handle(ctx context.Context, event events.Event) error {
	sent, ok := event.(domainevents.QuotationSent)
	if !ok {
		return nil
	}
	if sent.LeadID == nil {
		return nil
	}

	label := sent.SequenceLabel
	if label == "" {
		label = "quotation"
	}
	verb := "sent"
	if sent.IsResend {
		verb = "resent"
	}
	description := fmt.Sprintf("%s %s %s via %s to %s",
		label, sent.QuotationNumber, verb, sent.Channel, sent.Recipient)

	err := s.leads.RecordQuotationSent(ctx, *sent.LeadID, sent.ActorID, description, sent.CorrelationID)
	if err != nil {
		s.log.WithCorrelationID(sent.CorrelationID).Error("lead_timeline_write_failed",
			"lead_id", sent.LeadID.String(),
			"quotation_id", sent.QuotationID.String(),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// Compile-time check.
var _ events.Handler = (*QuotationTimelineSubscriber)(nil)
