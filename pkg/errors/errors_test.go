package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized},
		{code: CodeNotAuthenticated, status: http.StatusUnauthorized},
		{code: CodeInvalidCredentials, status: http.StatusUnauthorized},
		{code: CodeAccountBlocked, status: http.StatusForbidden},
		{code: CodeForbidden, status: http.StatusForbidden},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeConflict, status: http.StatusConflict},
		{code: CodeAlreadyPresent, status: http.StatusConflict},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, detailsOK: true},
		{code: CodeRemote, status: http.StatusBadGateway, retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIsWalkTheChain(t *testing.T) {
	inner := New(CodeAccountBlocked, "blocked")
	outer := fmt.Errorf("login: %w", Wrap(CodeRemote, inner, "store call failed"))

	if got := As(outer); got == nil || got.Code() != CodeRemote {
		t.Fatalf("expected outermost typed error, got %v", got)
	}
	if !Is(outer, CodeAccountBlocked) {
		t.Fatal("expected Is to find the nested code")
	}
	if Is(outer, CodeNotFound) {
		t.Fatal("unexpected match for absent code")
	}
	if Is(stdErrors.New("plain"), CodeInternal) {
		t.Fatal("untyped errors carry no code")
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]Code{
		http.StatusBadRequest:          CodeValidation,
		http.StatusUnauthorized:        CodeUnauthorized,
		http.StatusNotFound:            CodeNotFound,
		http.StatusConflict:            CodeConflict,
		http.StatusInternalServerError: CodeRemote,
		http.StatusTeapot:              CodeRemote,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Fatalf("status %d: expected %s got %s", status, want, got)
		}
	}
}

func TestRemoteMessageWording(t *testing.T) {
	server := Remote(CodeRemote, http.StatusServiceUnavailable, "users", nil, "unavailable")
	if got := RemoteMessage(server); got != "Server error. Please try again later." {
		t.Fatalf("unexpected 5xx wording %q", got)
	}
	if !IsServerFailure(server) {
		t.Fatal("503 should count as server failure")
	}

	transport := Remote(CodeRemote, 0, "users", stdErrors.New("dial tcp: refused"), "request failed")
	if !IsServerFailure(transport) {
		t.Fatal("transport errors should count as server failure")
	}

	client := Remote(CodeNotFound, http.StatusNotFound, "users", nil, "user not found")
	wrapped := Wrap(CodeRemote, client, "Failed to block user")
	if got := RemoteMessage(wrapped); got != "Error: 404 - user not found" {
		t.Fatalf("unexpected client wording %q", got)
	}
	if IsServerFailure(wrapped) {
		t.Fatal("404 is not a server failure")
	}

	if got := RemoteMessage(New(CodeValidation, "bad input")); got != "bad input" {
		t.Fatalf("non-remote errors should render their message, got %q", got)
	}
}
