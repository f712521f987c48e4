// Package adapters bridges module services across domain boundaries so the
// modules themselves stay decoupled.
package adapters

import (
	"context"

	"salesdesk_backend/internal/email"
	quotationsvc "salesdesk_backend/internal/quotations/service"
)

// DispatchMailer adapts the email sender to the quotation dispatch workflow.
// A nil sender means no SMTP transport is configured.
type DispatchMailer struct {
	sender email.Sender
}

// NewDispatchMailer creates a new dispatch mailer adapter. Pass nil when
// SMTP is not configured; the workflow then takes the manual-send fallback.
func NewDispatchMailer(sender email.Sender) *DispatchMailer {
	return &DispatchMailer{sender: sender}
}

// IsConfigured reports whether an outbound email transport exists.
func (a *DispatchMailer) IsConfigured() bool {
	return a.sender != nil
}

// SendQuotation renders and delivers the quotation email.
func (a *DispatchMailer) SendQuotation(ctx context.Context, input quotationsvc.SendQuotationInput) error {
	return a.sender.SendQuotationEmail(ctx, email.QuotationEmail{
		ToEmail:         input.To,
		QuotationNumber: input.QuotationNumber,
		SequenceLabel:   input.SequenceLabel,
		TicketSubject:   input.TicketSubject,
		Notes:           input.Notes,
		TotalCents:      input.TotalCents,
	})
}

// Compile-time check.
var _ quotationsvc.DispatchMailer = (*DispatchMailer)(nil)
