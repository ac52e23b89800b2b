package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      string
		wantStatus    int
		wantRetryable bool
	}{
		{
			name:       "nil error",
			err:        nil,
			wantCode:   "",
			wantStatus: 0,
		},
		{
			name:       "domain error passes through",
			err:        NewSessionExpired(),
			wantCode:   "SESSION_EXPIRED",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrapped domain error unwraps",
			err:        fmt.Errorf("handler: %w", NewAuthenticationFailed()),
			wantCode:   "AUTHENTICATION_FAILED",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:          "deadline maps to repository unavailable",
			err:           context.DeadlineExceeded,
			wantCode:      "REPOSITORY_UNAVAILABLE",
			wantStatus:    http.StatusServiceUnavailable,
			wantRetryable: true,
		},
		{
			name:       "unknown error maps to internal",
			err:        errors.New("boom"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("ToDomainError(nil) = %v", got)
				}
				return
			}
			if got.Code != tt.wantCode {
				t.Fatalf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Fatalf("HTTPStatus = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
			if got.Retryable != tt.wantRetryable {
				t.Fatalf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestAuthenticationFailedIsGeneric(t *testing.T) {
	msg := ToDomainError(NewAuthenticationFailed()).Message
	for _, leak := range []string{"school", "secret", "digest"} {
		if strings.Contains(strings.ToLower(msg), leak) {
			t.Fatalf("authentication failure message leaks %q: %s", leak, msg)
		}
	}
}

func TestIsInconsistentRecord(t *testing.T) {
	err := NewInconsistentRecord("tickets", "missing id")
	if !IsInconsistentRecord(err) {
		t.Fatal("IsInconsistentRecord false for inconsistent-record error")
	}
	if IsInconsistentRecord(NewSessionExpired()) {
		t.Fatal("IsInconsistentRecord true for session error")
	}
	if IsInconsistentRecord(nil) {
		t.Fatal("IsInconsistentRecord true for nil")
	}
}
