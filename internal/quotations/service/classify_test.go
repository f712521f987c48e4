package service

import (
	"testing"

	"salesdesk_backend/platform/apperr"
)

func TestClassifyMarkSentFailure(t *testing.T) {
	tests := []struct {
		code     string
		wantKind apperr.Kind
	}{
		{ErrCodeOpportunityNotFound, apperr.KindConflict},
		{ErrCodeInvalidStatusChange, apperr.KindConflict},
		{"CONFLICT_QUOTATION_ALREADY_ACCEPTED", apperr.KindConflict},
		{"CONFLICT_STALE_REVISION", apperr.KindConflict},
		{ErrCodeNoOpportunityFound, apperr.KindValidation},
		{ErrCodeInsufficientData, apperr.KindValidation},
		{"SOMETHING_UNEXPECTED", apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := classifyMarkSentFailure(tt.code, "boom")
			if err.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", err.Kind, tt.wantKind)
			}
			if err.Code != tt.code {
				t.Fatalf("code = %q, want %q", err.Code, tt.code)
			}
			if err.Message != "boom" {
				t.Fatalf("message = %q, want %q", err.Message, "boom")
			}
		})
	}
}

func TestClassifyMarkSentFailureEmptyCode(t *testing.T) {
	err := classifyMarkSentFailure("", "")
	if err.Kind != apperr.KindInternal {
		t.Fatalf("kind = %v, want internal", err.Kind)
	}
	if err.Code != ErrCodeDispatchNotRecorded {
		t.Fatalf("code = %q, want %q", err.Code, ErrCodeDispatchNotRecorded)
	}
	if err.Message == "" {
		t.Fatal("expected a fallback message")
	}
}
