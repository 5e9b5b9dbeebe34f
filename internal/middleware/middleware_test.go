package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"golang.org/x/time/rate"
)

func okHandler(t *testing.T, sawTrace *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sawTrace != nil {
			*sawTrace, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestWrap_Authentication(t *testing.T) {
	m := New(Options{AuthToken: "s3cret", RateLimit: rate.Inf})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid token", "s3cret", http.StatusNoContent},
		{"wrong token", "guess", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Wrap(okHandler(t, nil))(rec, request(tt.token))
			if rec.Code != tt.want {
				t.Errorf("status = %d; want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWrap_AuthBypass(t *testing.T) {
	m := New(Options{NoAuthBypass: true, RateLimit: rate.Inf})
	rec := httptest.NewRecorder()
	m.Wrap(okHandler(t, nil))(rec, request(""))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d; bypass should let the request through", rec.Code)
	}
}

func TestWrap_TraceIdPropagates(t *testing.T) {
	m := New(Options{NoAuthBypass: true, RateLimit: rate.Inf})

	var seen string
	req := request("")
	req.Header.Set("X-Trace-Id", "trace-123")
	rec := httptest.NewRecorder()
	m.Wrap(okHandler(t, &seen))(rec, req)
	if seen != "trace-123" || rec.Header().Get("X-Trace-Id") != "trace-123" {
		t.Errorf("trace in context = %q, header = %q", seen, rec.Header().Get("X-Trace-Id"))
	}

	rec = httptest.NewRecorder()
	m.Wrap(okHandler(t, &seen))(rec, request(""))
	if seen == "" || seen != rec.Header().Get("X-Trace-Id") {
		t.Errorf("generated trace %q not echoed (%q)", seen, rec.Header().Get("X-Trace-Id"))
	}
}

func TestWrap_RateLimit(t *testing.T) {
	m := New(Options{NoAuthBypass: true, RateLimit: rate.Limit(0.001), Burst: 2})
	h := m.Wrap(okHandler(t, nil))

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h(rec, request(""))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v; want burst of 2 then 429", codes)
	}

	other := request("")
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h(rec, other)
	if rec.Code != http.StatusNoContent {
		t.Errorf("limits are per IP, got %d for a fresh client", rec.Code)
	}
}

func TestIsValidBearerToken_EmptyExpected(t *testing.T) {
	if IsValidBearerToken("Bearer ", "", logger_i.NewLogger("test")) {
		t.Error("an unset token must reject every request")
	}
}
