package service

import "fmt"

// SequenceLabel renders the human-readable position of a quotation within its
// sales context, e.g. "1st quotation" or "3rd revised quotation". A quotation
// counts as revised when at least one earlier quotation in the same context
// was rejected.
func SequenceLabel(sequence, previousRejected int) string {
	if sequence < 1 {
		sequence = 1
	}
	if previousRejected > 0 {
		return fmt.Sprintf("%s revised quotation", ordinal(sequence))
	}
	return fmt.Sprintf("%s quotation", ordinal(sequence))
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
