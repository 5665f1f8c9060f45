package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{CodeValidation, http.StatusBadRequest, "validation failed", false, true},
		{CodeUnauthorized, http.StatusUnauthorized, "authentication required", false, false},
		{CodeForbidden, http.StatusForbidden, "access denied", false, false},
		{CodeNotFound, http.StatusNotFound, "resource not found", false, false},
		{CodeConflict, http.StatusConflict, "conflict detected", false, true},
		{CodeStateConflict, http.StatusUnprocessableEntity, "state transition disallowed", false, true},
		{CodeRateLimit, http.StatusTooManyRequests, "rate limit exceeded", false, false},
		{CodeInternal, http.StatusInternalServerError, "internal server error", true, false},
		{CodeDependency, http.StatusServiceUnavailable, "dependency unavailable", true, true},
	}

	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, meta.HTTPStatus, tc.status)
		}
		if meta.PublicMessage != tc.publicMsg {
			t.Errorf("%s: public message = %q, want %q", tc.code, meta.PublicMessage, tc.publicMsg)
		}
		if meta.Retryable != tc.retryable {
			t.Errorf("%s: retryable = %v, want %v", tc.code, meta.Retryable, tc.retryable)
		}
		if meta.DetailsAllowed != tc.detailsOK {
			t.Errorf("%s: details allowed = %v, want %v", tc.code, meta.DetailsAllowed, tc.detailsOK)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code status = %d, want 500", meta.HTTPStatus)
	}
	if meta.PublicMessage != "internal server error" {
		t.Fatalf("unknown code public message = %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	err := New(CodeNotFound, "product missing")
	if err.Code() != CodeNotFound {
		t.Fatalf("code = %s, want %s", err.Code(), CodeNotFound)
	}
	if err.Message() != "product missing" {
		t.Fatalf("message = %q", err.Message())
	}
	if err.Details() != nil {
		t.Fatal("details should default to nil")
	}
	if err.Error() != "NOT_FOUND: product missing" {
		t.Fatalf("error string = %q", err.Error())
	}

	withDetails := err.WithDetails(map[string]any{"id": "abc"})
	if withDetails.Details() == nil {
		t.Fatal("details lost after WithDetails")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "ping redis")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s, want %s", err.Code(), CodeDependency)
	}

	nilCause := Wrap(CodeInternal, nil, "no cause")
	if nilCause.Unwrap() != nil {
		t.Fatal("wrapping nil should leave no cause")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeConflict, "slug taken")
	wrapped := fmt.Errorf("create category: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("typed error not found in chain")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeConflict)
	}

	if As(fmt.Errorf("plain")) != nil {
		t.Fatal("plain error should not match")
	}
	if As(nil) != nil {
		t.Fatal("nil error should not match")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	inner := New(CodeDependency, "query failed")
	wrapped := fmt.Errorf("list products: %w", inner)

	d := Dump(wrapped)
	if d.Code != CodeDependency {
		t.Fatalf("dump code = %s, want %s", d.Code, CodeDependency)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain length = %d, want at least 2", len(d.Chain))
	}
	if d.TopMessage == "" {
		t.Fatal("top message should not be empty")
	}

	if Dump(nil).TopMessage != "" {
		t.Fatal("nil error should dump empty")
	}
}
