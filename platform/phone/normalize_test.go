package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dutch national format", "06 12 34 56 78", "+31612345678"},
		{"already e164", "+31612345678", "+31612345678"},
		{"international with zeros", "0031612345678", "+31612345678"},
		{"whitespace trimmed", "  +31612345678  ", "+31612345678"},
		{"empty", "", ""},
		{"unparseable returns trimmed input", " not-a-number ", "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWhatsAppDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips plus", "+31612345678", "31612345678"},
		{"national format", "06 12 34 56 78", "31612345678"},
		{"invalid number keeps digits only", "12-34", "1234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WhatsAppDigits(tt.input); got != tt.want {
				t.Errorf("WhatsAppDigits(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
