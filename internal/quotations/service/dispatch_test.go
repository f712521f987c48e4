package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"salesdesk_backend/internal/quotations/repository"
	"salesdesk_backend/internal/quotations/storageops"
	"salesdesk_backend/internal/quotations/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/events"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	aggregate *repository.Aggregate
	getErr    error
}

func (f *fakeRepo) NextQuotationNumber(ctx context.Context, orgID uuid.UUID) (string, int, error) {
	return "QT-2026-0001", 1, nil
}

func (f *fakeRepo) CreateWithItems(ctx context.Context, q *repository.Quotation, items []repository.QuotationItem) error {
	return nil
}

func (f *fakeRepo) GetAggregate(ctx context.Context, id, orgID uuid.UUID) (*repository.Aggregate, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.aggregate, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	return &repository.ListResult{}, nil
}

func (f *fakeRepo) ListActivities(ctx context.Context, quotationID, orgID uuid.UUID) ([]repository.Activity, error) {
	return nil, nil
}

func (f *fakeRepo) SequenceCounters(ctx context.Context, orgID uuid.UUID, opportunityID, leadID *uuid.UUID) (int, int, error) {
	return 0, 0, nil
}

type fakeStorageOps struct {
	preflightCalls int
	markSentCalls  int

	preflightVerdict *storageops.PreflightVerdict
	preflightErr     error
	preflightCorr    string

	markSentResult *storageops.MarkSentResult
	markSentErr    error
	markSentParams storageops.MarkSentParams
}

func (f *fakeStorageOps) DispatchPreflight(ctx context.Context, quotationID, orgID uuid.UUID, correlationID string) (*storageops.PreflightVerdict, error) {
	f.preflightCalls++
	f.preflightCorr = correlationID
	if f.preflightErr != nil {
		return nil, f.preflightErr
	}
	return f.preflightVerdict, nil
}

func (f *fakeStorageOps) MarkSent(ctx context.Context, params storageops.MarkSentParams) (*storageops.MarkSentResult, error) {
	f.markSentCalls++
	f.markSentParams = params
	if f.markSentErr != nil {
		return nil, f.markSentErr
	}
	return f.markSentResult, nil
}

type fakeMailer struct {
	configured bool
	sendErr    error
	sendCalls  int
	lastInput  SendQuotationInput
}

func (f *fakeMailer) IsConfigured() bool { return f.configured }

func (f *fakeMailer) SendQuotation(ctx context.Context, input SendQuotationInput) error {
	f.sendCalls++
	f.lastInput = input
	if f.sendErr != nil {
		return f.sendErr
	}
	return nil
}

type fakeComposer struct {
	link      string
	composeErr error
	calls     int
}

func (f *fakeComposer) QuotationLink(phoneNumber string, input WhatsAppLinkInput) (string, error) {
	f.calls++
	if f.composeErr != nil {
		return "", f.composeErr
	}
	return f.link, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event)          { f.published = append(f.published, event) }
func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error { f.published = append(f.published, event); return nil }
func (f *fakeBus) Subscribe(eventName string, handler events.Handler)       {}

// ── Helpers ───────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func draftAggregate() *repository.Aggregate {
	oppID := uuid.New()
	leadID := uuid.New()
	return &repository.Aggregate{
		Quotation: repository.Quotation{
			ID:              uuid.New(),
			OrganizationID:  uuid.New(),
			QuotationNumber: "QT-2026-0042",
			Status:          "draft",
			OpportunityID:   &oppID,
			LeadID:          &leadID,
			Sequence:        1,
			RecipientEmail:  strPtr("customer@example.com"),
			RecipientPhone:  strPtr("+31612345678"),
			TotalCents:      125000,
		},
	}
}

func okVerdict() *storageops.PreflightVerdict {
	return &storageops.PreflightVerdict{CanProceed: true}
}

func okResult() *storageops.MarkSentResult {
	return &storageops.MarkSentResult{
		Success:                true,
		QuotationStatus:        "sent",
		OldStage:               "Discovery",
		NewStage:               "Quote Sent",
		PipelineUpdatesCreated: 4,
		ActivitiesCreated:      1,
		QuotationSequence:      1,
	}
}

type dispatchEnv struct {
	svc      *Service
	repo     *fakeRepo
	ops      *fakeStorageOps
	mailer   *fakeMailer
	composer *fakeComposer
	bus      *fakeBus
}

func newDispatchEnv() *dispatchEnv {
	env := &dispatchEnv{
		repo:     &fakeRepo{aggregate: draftAggregate()},
		ops:      &fakeStorageOps{preflightVerdict: okVerdict(), markSentResult: okResult()},
		mailer:   &fakeMailer{configured: true},
		composer: &fakeComposer{link: "https://wa.me/31612345678?text=hello"},
		bus:      &fakeBus{},
	}
	env.svc = New(env.repo, env.ops, env.mailer, env.composer, env.bus, logger.New("test"))
	return env
}

func (e *dispatchEnv) dispatch(t *testing.T, req transport.DispatchRequest) (*transport.DispatchResponse, error) {
	t.Helper()
	q := e.repo.aggregate.Quotation
	return e.svc.Dispatch(context.Background(), q.ID, q.OrganizationID, uuid.New(), req)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestDispatchRejectsUnsupportedChannelBeforeAnyCall(t *testing.T) {
	env := newDispatchEnv()

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "sms"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if apperr.CodeOf(err) != ErrCodeUnsupportedChannel {
		t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodeUnsupportedChannel)
	}
	if env.ops.preflightCalls != 0 || env.ops.markSentCalls != 0 {
		t.Fatalf("storage ops called for invalid channel: preflight=%d markSent=%d", env.ops.preflightCalls, env.ops.markSentCalls)
	}
	if env.mailer.sendCalls != 0 {
		t.Fatalf("mailer called for invalid channel")
	}
}

func TestDispatchRequiresRecipient(t *testing.T) {
	env := newDispatchEnv()
	env.repo.aggregate.Quotation.RecipientEmail = nil

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if apperr.CodeOf(err) != ErrCodeMissingRecipient {
		t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodeMissingRecipient)
	}
	if env.ops.preflightCalls != 0 {
		t.Fatal("preflight ran without a recipient")
	}
}

func TestDispatchRejectsNonDispatchableStatus(t *testing.T) {
	for _, status := range []string{"accepted", "rejected", "expired", "revoked"} {
		t.Run(status, func(t *testing.T) {
			env := newDispatchEnv()
			env.repo.aggregate.Quotation.Status = status

			_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
			if !apperr.Is(err, apperr.KindConflict) {
				t.Fatalf("expected conflict, got %v", err)
			}
			if apperr.CodeOf(err) != ErrCodeNotDispatchable {
				t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodeNotDispatchable)
			}
			if env.ops.preflightCalls != 0 || env.ops.markSentCalls != 0 {
				t.Fatal("storage ops ran for non-dispatchable quotation")
			}
		})
	}
}

func TestDispatchEmailSuccess(t *testing.T) {
	env := newDispatchEnv()

	resp, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.ops.preflightCalls != 1 {
		t.Fatalf("preflight calls = %d, want 1", env.ops.preflightCalls)
	}
	if env.ops.markSentCalls != 1 {
		t.Fatalf("markSent calls = %d, want 1", env.ops.markSentCalls)
	}
	if env.mailer.sendCalls != 1 {
		t.Fatalf("mailer calls = %d, want 1", env.mailer.sendCalls)
	}
	if env.ops.markSentParams.AllowAutocreate {
		t.Fatal("markSent must never allow autocreate")
	}
	if env.ops.markSentParams.SentVia != "email" {
		t.Fatalf("sentVia = %q, want email", env.ops.markSentParams.SentVia)
	}
	if env.ops.markSentParams.SentTo != "customer@example.com" {
		t.Fatalf("sentTo = %q", env.ops.markSentParams.SentTo)
	}

	if resp.CorrelationID == "" {
		t.Fatal("response carries no correlation id")
	}
	if env.ops.preflightCorr != resp.CorrelationID {
		t.Fatalf("preflight correlation %q != response %q", env.ops.preflightCorr, resp.CorrelationID)
	}
	if env.ops.markSentParams.CorrelationID != resp.CorrelationID {
		t.Fatalf("markSent correlation %q != response %q", env.ops.markSentParams.CorrelationID, resp.CorrelationID)
	}
	if env.mailer.lastInput.CorrelationID != resp.CorrelationID {
		t.Fatalf("mail correlation %q != response %q", env.mailer.lastInput.CorrelationID, resp.CorrelationID)
	}

	if !resp.StageChanged || resp.NewStage != "Quote Sent" {
		t.Fatalf("stage transition not reflected: %+v", resp)
	}
	if resp.PipelineUpdatesCreated != 4 {
		t.Fatalf("pipelineUpdatesCreated = %d, want 4", resp.PipelineUpdatesCreated)
	}
	if resp.FallbackManualSend {
		t.Fatal("fallback flag set with a configured mailer")
	}
	if resp.SequenceLabel != "1st quotation" {
		t.Fatalf("sequenceLabel = %q", resp.SequenceLabel)
	}

	if len(env.bus.published) != 1 {
		t.Fatalf("events published = %d, want 1", len(env.bus.published))
	}
	if env.bus.published[0].EventName() != "quotation.sent" {
		t.Fatalf("event name = %q", env.bus.published[0].EventName())
	}
}

func TestDispatchPreflightFailureStopsBeforeMarkSent(t *testing.T) {
	tests := []struct {
		name     string
		verdict  *storageops.PreflightVerdict
		wantKind apperr.Kind
		wantCode string
	}{
		{
			name: "ambiguous opportunity",
			verdict: &storageops.PreflightVerdict{
				RepairFailed: true,
				ErrorCode:    ErrCodeAmbiguousOpportunity,
			},
			wantKind: apperr.KindConflict,
			wantCode: ErrCodeAmbiguousOpportunity,
		},
		{
			name: "repair failed",
			verdict: &storageops.PreflightVerdict{
				RepairFailed: true,
				ErrorCode:    ErrCodeRepairFailed,
			},
			wantKind: apperr.KindNotFound,
			wantCode: ErrCodeRepairFailed,
		},
		{
			name: "orphan without repair",
			verdict: &storageops.PreflightVerdict{
				NeedsRepair: true,
			},
			wantKind: apperr.KindConflict,
			wantCode: ErrCodeOrphanOpportunity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDispatchEnv()
			env.ops.preflightVerdict = tt.verdict

			_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("kind = %v, want %v (err: %v)", apperr.GetKind(err), tt.wantKind, err)
			}
			if apperr.CodeOf(err) != tt.wantCode {
				t.Fatalf("code = %q, want %q", apperr.CodeOf(err), tt.wantCode)
			}
			if env.ops.markSentCalls != 0 {
				t.Fatal("markSent ran after a failed preflight")
			}
			if env.mailer.sendCalls != 0 {
				t.Fatal("email sent after a failed preflight")
			}
		})
	}
}

func TestDispatchPreflightTransportError(t *testing.T) {
	env := newDispatchEnv()
	env.ops.preflightErr = errors.New("connection refused")

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if apperr.CodeOf(err) != ErrCodePreflightFailed {
		t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodePreflightFailed)
	}
	if env.ops.markSentCalls != 0 {
		t.Fatal("markSent ran after a preflight transport error")
	}
}

func TestDispatchEmailSendFailure(t *testing.T) {
	env := newDispatchEnv()
	env.mailer.sendErr = errors.New("smtp handshake failed")

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if apperr.CodeOf(err) != ErrCodeEmailSendFailed {
		t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodeEmailSendFailed)
	}
	if env.ops.markSentCalls != 0 {
		t.Fatal("markSent ran after the email failed to send")
	}
}

func TestDispatchEmailFallbackWhenSMTPUnconfigured(t *testing.T) {
	env := newDispatchEnv()
	env.mailer.configured = false

	resp, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.mailer.sendCalls != 0 {
		t.Fatal("mailer invoked despite being unconfigured")
	}
	if env.ops.markSentCalls != 1 {
		t.Fatal("send must still be recorded on the fallback path")
	}
	if !resp.FallbackManualSend {
		t.Fatal("fallback flag not set")
	}
	if !strings.Contains(resp.Message, "manually") {
		t.Fatalf("message does not mention manual delivery: %q", resp.Message)
	}
}

func TestDispatchMarkSentTransportError(t *testing.T) {
	env := newDispatchEnv()
	env.ops.markSentErr = errors.New("write timeout")

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if apperr.CodeOf(err) != ErrCodeDispatchNotRecorded {
		t.Fatalf("code = %q, want %q", apperr.CodeOf(err), ErrCodeDispatchNotRecorded)
	}
	// The email was already handed to the transport; the caller must know.
	appErr := err.(*apperr.Error)
	details, ok := appErr.Details.(map[string]any)
	if !ok || details["messageSent"] != true {
		t.Fatalf("details = %+v, want messageSent=true", appErr.Details)
	}
	if len(env.bus.published) != 0 {
		t.Fatal("event published for an unrecorded dispatch")
	}
}

func TestDispatchMarkSentRejection(t *testing.T) {
	env := newDispatchEnv()
	env.ops.markSentResult = &storageops.MarkSentResult{
		Success:   false,
		Error:     "quotation already accepted",
		ErrorCode: "CONFLICT_QUOTATION_ALREADY_ACCEPTED",
	}

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(env.bus.published) != 0 {
		t.Fatal("event published for a rejected dispatch")
	}
}

func TestDispatchResendIsIdempotent(t *testing.T) {
	env := newDispatchEnv()
	env.repo.aggregate.Quotation.Status = "sent"
	env.ops.markSentResult = &storageops.MarkSentResult{
		Success:                true,
		QuotationStatus:        "sent",
		OldStage:               "Quote Sent",
		NewStage:               "Quote Sent",
		PipelineUpdatesCreated: 0,
		ActivitiesCreated:      1,
		IsResend:               true,
	}

	resp, err := env.dispatch(t, transport.DispatchRequest{Channel: "email", IsResend: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PipelineUpdatesCreated != 0 {
		t.Fatalf("resend created %d pipeline updates, want 0", resp.PipelineUpdatesCreated)
	}
	if resp.StageChanged {
		t.Fatal("resend must not report a stage change")
	}
	if !resp.IsResend {
		t.Fatal("resend flag lost")
	}
	if !strings.Contains(resp.Message, "resent") {
		t.Fatalf("message = %q, want resend wording", resp.Message)
	}
}

func TestDispatchWhatsAppBuildsLinkWithoutMailer(t *testing.T) {
	env := newDispatchEnv()

	resp, err := env.dispatch(t, transport.DispatchRequest{Channel: "whatsapp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.mailer.sendCalls != 0 {
		t.Fatal("mailer invoked on the whatsapp channel")
	}
	if env.composer.calls != 1 {
		t.Fatalf("composer calls = %d, want 1", env.composer.calls)
	}
	if resp.WhatsAppLink == "" {
		t.Fatal("no whatsapp link in response")
	}
	if env.ops.markSentParams.SentVia != "whatsapp" {
		t.Fatalf("sentVia = %q, want whatsapp", env.ops.markSentParams.SentVia)
	}
	if env.ops.markSentParams.SentTo != "+31612345678" {
		t.Fatalf("sentTo = %q", env.ops.markSentParams.SentTo)
	}
}

func TestDispatchSkipsPreflightWithoutOpportunityReference(t *testing.T) {
	env := newDispatchEnv()
	env.repo.aggregate.Quotation.OpportunityID = nil

	_, err := env.dispatch(t, transport.DispatchRequest{Channel: "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.ops.preflightCalls != 0 {
		t.Fatalf("preflight calls = %d, want 0 without an opportunity reference", env.ops.preflightCalls)
	}
	if env.ops.markSentCalls != 1 {
		t.Fatalf("markSent calls = %d, want 1", env.ops.markSentCalls)
	}
}

func TestDispatchRecipientOverride(t *testing.T) {
	env := newDispatchEnv()

	resp, err := env.dispatch(t, transport.DispatchRequest{Channel: "email", Recipient: "other@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Recipient != "other@example.com" {
		t.Fatalf("recipient = %q, want override", resp.Recipient)
	}
	if env.ops.markSentParams.SentTo != "other@example.com" {
		t.Fatalf("sentTo = %q, want override", env.ops.markSentParams.SentTo)
	}
}
