package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"bad request", BadRequest("malformed"), http.StatusBadRequest},
		{"conflict", Conflict("already sent"), http.StatusConflict},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"internal", Internal("oops"), http.StatusInternalServerError},
		{"unknown", New(KindUnknown, "odd"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorStringIncludesOp(t *testing.T) {
	err := Internal("write failed").WithOp("quotations.Dispatch")
	if got, want := err.Error(), "quotations.Dispatch: write failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "mark sent failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCodeAndCorrelationCarryThrough(t *testing.T) {
	err := Conflict("ambiguous").WithCode("AMBIGUOUS_OPPORTUNITY").WithCorrelationID("corr-1")
	if CodeOf(err) != "AMBIGUOUS_OPPORTUNITY" {
		t.Errorf("CodeOf() = %q", CodeOf(err))
	}
	if err.CorrelationID != "corr-1" {
		t.Errorf("CorrelationID = %q", err.CorrelationID)
	}
}

func TestKindHelpersOnForeignErrors(t *testing.T) {
	plain := errors.New("plain")
	if GetKind(plain) != KindUnknown {
		t.Error("GetKind on a non-typed error should be KindUnknown")
	}
	if CodeOf(plain) != "" {
		t.Error("CodeOf on a non-typed error should be empty")
	}
	if Is(plain, KindConflict) {
		t.Error("Is should not match a non-typed error")
	}
	if !Is(Conflict("x"), KindConflict) {
		t.Error("Is should match a typed conflict")
	}
}
