package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"salesdesk_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	fromName    string
	fromEmail   string
	companyName string
}

// NewSMTPSender creates a new SMTPSender from the SMTP and company settings.
// Returns nil when no SMTP transport is configured.
func NewSMTPSender(smtp config.SMTPConfig, company config.CompanyConfig) *SMTPSender {
	if !smtp.IsSMTPConfigured() {
		return nil
	}
	return &SMTPSender{
		host:        smtp.GetSMTPHost(),
		port:        smtp.GetSMTPPort(),
		username:    smtp.GetSMTPUsername(),
		password:    smtp.GetSMTPPassword(),
		fromName:    smtp.GetEmailFromName(),
		fromEmail:   smtp.GetEmailFromAddress(),
		companyName: company.GetCompanyName(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendQuotationEmail renders and delivers the quotation dispatch email.
func (s *SMTPSender) SendQuotationEmail(ctx context.Context, msg QuotationEmail) error {
	subject := fmt.Sprintf(subjectQuotationFmt, msg.QuotationNumber, s.companyName)
	content, err := renderEmailTemplate("quotation_dispatch.html", quotationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Uw offerte",
			Heading: "Uw offerte is klaar",
		},
		QuotationNumber: msg.QuotationNumber,
		SequenceLabel:   msg.SequenceLabel,
		TicketSubject:   msg.TicketSubject,
		Notes:           msg.Notes,
		CompanyName:     s.companyName,
		TotalFormatted:  formatCurrencyEUR(msg.TotalCents),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg.ToEmail, subject, content)
}
