package service

import (
	"context"
	"fmt"
	"strings"

	domainevents "salesdesk_backend/internal/events"
	"salesdesk_backend/internal/quotations/repository"
	"salesdesk_backend/internal/quotations/storageops"
	"salesdesk_backend/internal/quotations/transport"
	"salesdesk_backend/platform/apperr"
	platformevents "salesdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Dispatch sends a quotation over the requested channel and records the send
// atomically. The flow is: validate, preflight, deliver, mark sent. Preflight
// and mark-sent each run at most once per call, and the mark-sent operation
// never auto-creates a replacement opportunity.
func (s *Service) Dispatch(ctx context.Context, quotationID, orgID, actorID uuid.UUID, req transport.DispatchRequest) (*transport.DispatchResponse, error) {
	channel := transport.Channel(strings.ToLower(strings.TrimSpace(req.Channel)))
	if !transport.IsValidChannel(channel) {
		return nil, apperr.Validation(fmt.Sprintf("unsupported dispatch channel %q", req.Channel)).
			WithCode(ErrCodeUnsupportedChannel)
	}

	agg, err := s.repo.GetAggregate(ctx, quotationID, orgID)
	if err != nil {
		return nil, err
	}
	quotation := agg.Quotation

	switch transport.QuotationStatus(quotation.Status) {
	case transport.QuotationStatusDraft, transport.QuotationStatusSent:
	default:
		return nil, apperr.Conflict(fmt.Sprintf("quotation in status %q cannot be dispatched", quotation.Status)).
			WithCode(ErrCodeNotDispatchable)
	}

	recipient, err := resolveRecipient(channel, req.Recipient, quotation)
	if err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	log := s.log.WithCorrelationID(correlationID)
	label := SequenceLabel(quotation.Sequence, quotation.PreviousRejectedCount)

	log.Info("dispatch_started",
		"quotation_id", quotationID.String(),
		"quotation_number", quotation.QuotationNumber,
		"channel", string(channel),
		"recipient", recipient,
		"is_resend", req.IsResend,
	)

	// The integrity check only matters when an opportunity reference exists;
	// a quotation without one has nothing that can dangle.
	if quotation.OpportunityID != nil {
		if _, err := s.runPreflight(ctx, log, quotationID, orgID, correlationID); err != nil {
			return nil, err
		}
	} else {
		log.Info("dispatch_preflight_skipped", "reason", "no opportunity reference")
	}

	var whatsappLink string
	fallbackManual := false

	switch channel {
	case transport.ChannelEmail:
		if s.mailer.IsConfigured() {
			input := SendQuotationInput{
				To:              recipient,
				QuotationNumber: quotation.QuotationNumber,
				SequenceLabel:   label,
				TotalCents:      quotation.TotalCents,
				CorrelationID:   correlationID,
			}
			if agg.TicketSubject != nil {
				input.TicketSubject = *agg.TicketSubject
			}
			if quotation.Notes != nil {
				input.Notes = *quotation.Notes
			}
			if err := s.mailer.SendQuotation(ctx, input); err != nil {
				log.Error("dispatch_email_failed", "error", err.Error())
				return nil, apperr.Wrap(apperr.KindInternal, "failed to send quotation email", err).
					WithCode(ErrCodeEmailSendFailed).
					WithCorrelationID(correlationID)
			}
			log.Info("dispatch_email_sent", "recipient", recipient)
		} else {
			fallbackManual = true
			log.Warn("dispatch_email_fallback_manual", "recipient", recipient)
		}

	case transport.ChannelWhatsApp:
		link, err := s.whatsapp.QuotationLink(recipient, WhatsAppLinkInput{
			QuotationNumber: quotation.QuotationNumber,
			SequenceLabel:   label,
			TotalCents:      quotation.TotalCents,
		})
		if err != nil {
			return nil, apperr.Validation("recipient phone number is not usable for WhatsApp").
				WithCode(ErrCodeMissingRecipient).
				WithCorrelationID(correlationID)
		}
		whatsappLink = link
	}

	result, err := s.ops.MarkSent(ctx, storageops.MarkSentParams{
		QuotationID:     quotationID,
		OrganizationID:  orgID,
		SentVia:         string(channel),
		SentTo:          recipient,
		ActorUserID:     actorID,
		CorrelationID:   correlationID,
		AllowAutocreate: false,
	})
	if err != nil {
		// The message may already be on its way; the commit must not be retried
		// blindly, so report exactly what is unrecorded.
		log.Error("dispatch_not_recorded", "error", err.Error())
		return nil, apperr.Wrap(apperr.KindInternal, "the quotation may have been delivered but the send could not be recorded", err).
			WithCode(ErrCodeDispatchNotRecorded).
			WithCorrelationID(correlationID).
			WithDetails(map[string]any{"messageSent": channel == transport.ChannelEmail && !fallbackManual})
	}

	if !result.Success {
		log.Warn("dispatch_rejected",
			"error_code", result.ErrorCode,
			"quotation_opportunity_id", uuidString(result.QuotationOpportunityID),
		)
		return nil, classifyMarkSentFailure(result.ErrorCode, result.Error).WithCorrelationID(correlationID)
	}

	isResend := req.IsResend || result.IsResend

	log.Info("dispatch_recorded",
		"quotation_status", result.QuotationStatus,
		"old_stage", result.OldStage,
		"new_stage", result.NewStage,
		"pipeline_updates_created", result.PipelineUpdatesCreated,
		"activities_created", result.ActivitiesCreated,
		"is_resend", result.IsResend,
		"opportunity_source", result.OpportunitySource,
	)

	s.bus.Publish(ctx, domainevents.QuotationSent{
		BaseEvent:       platformevents.NewBaseEvent(),
		QuotationID:     quotationID,
		OrganizationID:  orgID,
		QuotationNumber: quotation.QuotationNumber,
		LeadID:          quotation.LeadID,
		OpportunityID:   result.OpportunityID,
		Channel:         string(channel),
		Recipient:       recipient,
		SequenceLabel:   label,
		IsResend:        isResend,
		ActorID:         actorID,
		CorrelationID:   correlationID,
	})

	return &transport.DispatchResponse{
		Success:                true,
		Message:                dispatchMessage(channel, recipient, fallbackManual, isResend),
		QuotationStatus:        result.QuotationStatus,
		OldStage:               result.OldStage,
		NewStage:               result.NewStage,
		StageChanged:           result.OldStage != result.NewStage,
		OpportunityID:          result.OpportunityID,
		SequenceLabel:          label,
		PipelineUpdatesCreated: result.PipelineUpdatesCreated,
		ActivitiesCreated:      result.ActivitiesCreated,
		IsResend:               isResend,
		Channel:                string(channel),
		Recipient:              recipient,
		WhatsAppLink:           whatsappLink,
		FallbackManualSend:     fallbackManual,
		CorrelationID:          correlationID,
	}, nil
}

// resolveRecipient picks the destination address for the channel, preferring
// an explicit override from the request over the stored recipient.
func resolveRecipient(channel transport.Channel, override string, q repository.Quotation) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}

	switch channel {
	case transport.ChannelEmail:
		if q.RecipientEmail != nil && *q.RecipientEmail != "" {
			return *q.RecipientEmail, nil
		}
		return "", apperr.Validation("no recipient email address on the quotation").
			WithCode(ErrCodeMissingRecipient)
	case transport.ChannelWhatsApp:
		if q.RecipientPhone != nil && *q.RecipientPhone != "" {
			return *q.RecipientPhone, nil
		}
		return "", apperr.Validation("no recipient phone number on the quotation").
			WithCode(ErrCodeMissingRecipient)
	}
	return "", apperr.Validation("unsupported dispatch channel").WithCode(ErrCodeUnsupportedChannel)
}

func dispatchMessage(channel transport.Channel, recipient string, fallbackManual, isResend bool) string {
	verb := "sent"
	if isResend {
		verb = "resent"
	}
	switch {
	case channel == transport.ChannelWhatsApp:
		return fmt.Sprintf("Quotation %s via WhatsApp; open the link to deliver the message to %s.", verb, recipient)
	case fallbackManual:
		return fmt.Sprintf("Quotation marked as %s. No email transport is configured; deliver the document to %s manually.", verb, recipient)
	default:
		return fmt.Sprintf("Quotation %s to %s.", verb, recipient)
	}
}
