package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

type Options struct {
	AuthToken string
	// NoAuthBypass skips bearer checks. Local development only.
	NoAuthBypass bool
	RateLimit    rate.Limit
	Burst        int
}

type Middleware struct {
	authToken    string
	noAuthBypass bool
	limiter      *IPRateLimiter
	logger       *logger_i.Logger
}

func New(opts Options) *Middleware {
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Limit(config.RATE_LIMIT_PER_SECOND)
	}
	if opts.Burst == 0 {
		opts.Burst = config.BURST_RATE_LIMIT_PER_SECOND
	}
	m := &Middleware{
		authToken:    opts.AuthToken,
		noAuthBypass: opts.NoAuthBypass,
		limiter:      NewIPRateLimiter(opts.RateLimit, opts.Burst),
		logger:       logger_i.NewLogger("middleware"),
	}
	if m.noAuthBypass {
		m.logger.Warn("Authentication is disabled")
	}
	return m
}

// Wrap runs trace injection, authentication and rate limiting before next,
// and counts the request by route pattern and status.
func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}
		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
	}
}

// Trace only injects the trace id. Used for the unauthenticated routes.
func (m *Middleware) Trace(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		re := injectTrace(requestResponseStruct{req: r, writer: w, logger: m.logger})
		next(w, re.req)
	}
}

// WrapHandler adapts Wrap for plain http.Handlers such as the MCP endpoint.
func (m *Middleware) WrapHandler(next http.Handler) http.Handler {
	return m.Wrap(next.ServeHTTP)
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = m.logger
	re = injectTrace(re)
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	for _, step := range []func(requestResponseStruct) requestResponseStruct{m.authenticate, m.rateLimiter} {
		re = step(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return re
		}
	}
	return re
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
