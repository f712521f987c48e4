package adapters

import (
	quotationsvc "salesdesk_backend/internal/quotations/service"
	"salesdesk_backend/internal/whatsapp"
)

// WhatsAppComposer adapts the wa.me link composer to the quotation dispatch
// workflow.
type WhatsAppComposer struct {
	composer *whatsapp.Composer
}

// NewWhatsAppComposer creates a new whatsapp composer adapter.
func NewWhatsAppComposer(composer *whatsapp.Composer) *WhatsAppComposer {
	return &WhatsAppComposer{composer: composer}
}

// QuotationLink builds the click-to-chat link for a quotation message.
func (a *WhatsAppComposer) QuotationLink(phoneNumber string, input quotationsvc.WhatsAppLinkInput) (string, error) {
	return a.composer.Link(phoneNumber, whatsapp.QuotationMessage{
		QuotationNumber: input.QuotationNumber,
		SequenceLabel:   input.SequenceLabel,
		TotalCents:      input.TotalCents,
	})
}

// Compile-time check.
var _ quotationsvc.WhatsAppComposer = (*WhatsAppComposer)(nil)
