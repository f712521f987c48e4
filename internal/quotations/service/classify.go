package service

import (
	"strings"

	"salesdesk_backend/platform/apperr"
)

// Stable error codes surfaced by the dispatch workflow. Frontends branch on
// these, so changing a value is a breaking API change.
const (
	ErrCodeUnsupportedChannel   = "UNSUPPORTED_CHANNEL"
	ErrCodeMissingRecipient     = "MISSING_RECIPIENT"
	ErrCodeNotDispatchable      = "QUOTATION_NOT_DISPATCHABLE"
	ErrCodePreflightFailed      = "PREFLIGHT_FAILED"
	ErrCodeAmbiguousOpportunity = "AMBIGUOUS_OPPORTUNITY"
	ErrCodeOrphanOpportunity    = "ORPHAN_OPPORTUNITY_REFERENCE"
	ErrCodeRepairFailed         = "OPPORTUNITY_REPAIR_FAILED"
	ErrCodeEmailSendFailed      = "EMAIL_SEND_FAILED"
	ErrCodeDispatchNotRecorded  = "DISPATCH_NOT_RECORDED"
	ErrCodeOpportunityNotFound  = "OPPORTUNITY_NOT_FOUND"
	ErrCodeNoOpportunityFound   = "NO_OPPORTUNITY_FOUND"
	ErrCodeInsufficientData     = "INSUFFICIENT_DATA"
	ErrCodeInvalidStatusChange  = "INVALID_STATUS_TRANSITION"

	errCodeConflictPrefix = "CONFLICT_"
)

// classifyMarkSentFailure maps a failure code reported by the mark-sent
// storage operation to a typed domain error. Unknown codes are treated as
// internal faults so they surface as 500s instead of silently degrading.
func classifyMarkSentFailure(code, message string) *apperr.Error {
	if message == "" {
		message = "quotation dispatch was rejected by the storage layer"
	}

	switch {
	case code == ErrCodeOpportunityNotFound,
		code == ErrCodeInvalidStatusChange,
		strings.HasPrefix(code, errCodeConflictPrefix):
		return apperr.Conflict(message).WithCode(code)
	case code == ErrCodeNoOpportunityFound,
		code == ErrCodeInsufficientData:
		return apperr.Validation(message).WithCode(code)
	case code == "":
		return apperr.Internal(message).WithCode(ErrCodeDispatchNotRecorded)
	default:
		return apperr.Internal(message).WithCode(code)
	}
}
