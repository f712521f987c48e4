package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

type companyStub struct{}

func (companyStub) GetCompanyName() string   { return "Sales Desk" }
func (companyStub) GetCompanyEmail() string  { return "info@salesdesk.example" }
func (companyStub) GetCompanyPhone() string  { return "+31201234567" }
func (companyStub) GetPublicBaseURL() string { return "https://portal.salesdesk.example" }

func TestLinkBuildsWaMeURL(t *testing.T) {
	composer := NewComposer(companyStub{})

	link, err := composer.Link("+31 6 1234 5678", QuotationMessage{
		QuotationNumber: "QT-2026-0042",
		TotalCents:      125000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(link, "https://wa.me/31612345678?text=") {
		t.Fatalf("link = %q, want wa.me prefix with digits-only number", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	text := parsed.Query().Get("text")
	if !strings.Contains(text, "QT-2026-0042") {
		t.Fatalf("prefilled text missing quotation number: %q", text)
	}
	if !strings.Contains(text, "Sales Desk") {
		t.Fatalf("prefilled text missing company name: %q", text)
	}
	if !strings.Contains(text, "€1250.00") {
		t.Fatalf("prefilled text missing total: %q", text)
	}
}

func TestLinkRejectsUnusableNumber(t *testing.T) {
	composer := NewComposer(companyStub{})

	if _, err := composer.Link("not a number", QuotationMessage{QuotationNumber: "QT-2026-0001"}); err == nil {
		t.Fatal("expected an error for a number without digits")
	}
}
