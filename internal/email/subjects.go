package email

const (
	subjectQuotationFmt = "Offerte %s van %s"
)
