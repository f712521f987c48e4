// Package whatsapp builds click-to-chat links carrying a prefilled
// quotation message. Delivery happens in the operator's own WhatsApp
// session; no API credentials are involved.
package whatsapp

import (
	"fmt"
	"net/url"

	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/phone"
)

// QuotationMessage carries the fields rendered into the prefilled text.
type QuotationMessage struct {
	QuotationNumber string
	SequenceLabel   string
	TotalCents      int64
}

// Composer builds wa.me links for quotation messages.
type Composer struct {
	companyName string
}

// NewComposer creates a composer stamped with the company identity.
func NewComposer(company config.CompanyConfig) *Composer {
	return &Composer{companyName: company.GetCompanyName()}
}

// Link returns a wa.me URL that opens a chat with the recipient and the
// quotation message prefilled. The phone number must resolve to usable
// digits or an error is returned.
func (c *Composer) Link(phoneNumber string, msg QuotationMessage) (string, error) {
	digits := phone.WhatsAppDigits(phoneNumber)
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no usable digits", phoneNumber)
	}

	text := fmt.Sprintf(
		"Beste klant, hierbij ontvangt u offerte %s van %s. Totaalbedrag: €%.2f. Heeft u vragen? Reageer gerust op dit bericht.",
		msg.QuotationNumber, c.companyName, float64(msg.TotalCents)/100,
	)

	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text)), nil
}
