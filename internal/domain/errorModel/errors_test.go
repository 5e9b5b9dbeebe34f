package errorModel

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf_UnwrapsChain(t *testing.T) {
	base := New(KindDataIntegrity, "Document has no extracted text")
	wrapped := fmt.Errorf("answering: %w", base)

	if got := KindOf(wrapped); got != KindDataIntegrity {
		t.Errorf("KindOf = %s, want %s", got, KindDataIntegrity)
	}
	if got := DetailOf(wrapped); got != "Document has no extracted text" {
		t.Errorf("DetailOf = %q", got)
	}
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf = %s, want internal", got)
	}
}

func TestHTTPStatusAndRetry(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		retry  bool
	}{
		{KindValidation, http.StatusBadRequest, false},
		{KindDataIntegrity, http.StatusBadRequest, false},
		{KindNotFound, http.StatusNotFound, false},
		{KindUnavailable, http.StatusServiceUnavailable, true},
		{KindQuota, http.StatusServiceUnavailable, true},
		{KindPersistence, http.StatusInternalServerError, true},
		{KindInternal, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.status {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.status)
		}
		if got := CanRetry(tt.kind); got != tt.retry {
			t.Errorf("CanRetry(%s) = %v, want %v", tt.kind, got, tt.retry)
		}
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindPersistence, "saving chunks", cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
}
