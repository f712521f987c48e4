package service

import "testing"

func TestSequenceLabel(t *testing.T) {
	tests := []struct {
		name             string
		sequence         int
		previousRejected int
		want             string
	}{
		{"first quotation", 1, 0, "1st quotation"},
		{"second quotation", 2, 0, "2nd quotation"},
		{"third quotation", 3, 0, "3rd quotation"},
		{"fourth quotation", 4, 0, "4th quotation"},
		{"eleventh quotation", 11, 0, "11th quotation"},
		{"twelfth quotation", 12, 0, "12th quotation"},
		{"thirteenth quotation", 13, 0, "13th quotation"},
		{"twenty-first quotation", 21, 0, "21st quotation"},
		{"hundred-eleventh quotation", 111, 0, "111th quotation"},
		{"revised after rejection", 2, 1, "2nd revised quotation"},
		{"revised after two rejections", 3, 2, "3rd revised quotation"},
		{"zero sequence clamps to one", 0, 0, "1st quotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SequenceLabel(tt.sequence, tt.previousRejected); got != tt.want {
				t.Fatalf("SequenceLabel(%d, %d) = %q, want %q", tt.sequence, tt.previousRejected, got, tt.want)
			}
		})
	}
}
