// Package email renders and delivers outbound quotation email.
package email

import "context"

// QuotationEmail carries the fields rendered into the dispatch template.
type QuotationEmail struct {
	ToEmail         string
	QuotationNumber string
	SequenceLabel   string
	TicketSubject   string
	Notes           string
	TotalCents      int64
}

// Sender delivers quotation emails. A nil implementation means no outbound
// transport is configured.
type Sender interface {
	SendQuotationEmail(ctx context.Context, msg QuotationEmail) error
}
