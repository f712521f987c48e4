package service

import (
	"context"

	"salesdesk_backend/internal/quotations/storageops"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// runPreflight executes the read-only integrity check exactly once and
// classifies its verdict. A non-nil error means the dispatch must stop
// before any message leaves and before mark-sent runs.
func (s *Service) runPreflight(ctx context.Context, log *logger.Logger, quotationID, orgID uuid.UUID, correlationID string) (*storageops.PreflightVerdict, error) {
	verdict, err := s.ops.DispatchPreflight(ctx, quotationID, orgID, correlationID)
	if err != nil {
		log.Error("dispatch_preflight_error", "error", err.Error())
		return nil, apperr.Wrap(apperr.KindInternal, "failed to verify quotation before dispatch", err).
			WithCode(ErrCodePreflightFailed).
			WithCorrelationID(correlationID)
	}

	if verdict.CanProceed {
		if verdict.NeedsRepair {
			log.Info("dispatch_preflight_repaired",
				"resolved_opportunity_id", uuidString(verdict.ResolvedOpportunityID),
				"resolution_source", verdict.ResolutionSource,
			)
		}
		return verdict, nil
	}

	switch {
	case verdict.RepairFailed && verdict.ErrorCode == ErrCodeAmbiguousOpportunity:
		log.Warn("dispatch_preflight_ambiguous",
			"orphan_opportunity_id", uuidString(verdict.OrphanOpportunityID),
		)
		return nil, apperr.Conflict(messageOr(verdict.Error, "multiple opportunities match this quotation; link one explicitly before sending")).
			WithCode(ErrCodeAmbiguousOpportunity).
			WithCorrelationID(correlationID)

	case verdict.RepairFailed:
		log.Warn("dispatch_preflight_repair_failed",
			"orphan_opportunity_id", uuidString(verdict.OrphanOpportunityID),
			"error_code", verdict.ErrorCode,
		)
		code := verdict.ErrorCode
		if code == "" {
			code = ErrCodeRepairFailed
		}
		return nil, apperr.NotFound(messageOr(verdict.Error, "the opportunity linked to this quotation no longer exists and could not be resolved")).
			WithCode(code).
			WithCorrelationID(correlationID)

	case verdict.NeedsRepair:
		log.Warn("dispatch_preflight_orphan",
			"orphan_opportunity_id", uuidString(verdict.OrphanOpportunityID),
		)
		return nil, apperr.Conflict(messageOr(verdict.Error, "this quotation references an opportunity that no longer exists")).
			WithCode(ErrCodeOrphanOpportunity).
			WithCorrelationID(correlationID)

	default:
		code := verdict.ErrorCode
		if code == "" {
			code = ErrCodePreflightFailed
		}
		return nil, apperr.Conflict(messageOr(verdict.Error, "quotation cannot be dispatched in its current state")).
			WithCode(code).
			WithCorrelationID(correlationID)
	}
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
