package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/handlers"
	"github.com/akolanti/ContractRAG/internal/middleware"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// NewRouter registers every route. mcpHandler may be nil.
func NewRouter(mw *middleware.Middleware, mcpHandler http.Handler) http.Handler {
	r := utils.NewRouter()

	r.Router.Get("/healthz", mw.Trace(handlers.HealthHandler))

	r.Router.Post("/ingest", mw.Wrap(handlers.PostIngestHandler))
	r.Router.Post("/ask", mw.Wrap(handlers.AskHandler))
	r.Router.Post("/extract", mw.Wrap(handlers.ExtractHandler))
	r.Router.Post("/audit", mw.Wrap(handlers.AuditHandler))
	r.Router.Get("/status/{id}", mw.Wrap(handlers.GetStatusHandler))

	r.Router.Get("/documents", mw.Wrap(handlers.ListDocumentsHandler))
	r.Router.Get("/documents/{id}", mw.Wrap(handlers.GetDocumentHandler))
	r.Router.Delete("/documents/{id}", mw.Wrap(handlers.DeleteDocumentHandler))
	r.Router.Get("/documents/{id}/history", mw.Wrap(handlers.HistoryHandler))

	if mcpHandler != nil {
		r.Router.Handle("/mcp", mw.WrapHandler(mcpHandler))
	}
	return r.Router
}

func CreateServer(listenAddr string, handler http.Handler) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Error("Forced shutdown")
		os.Exit(1)
	}
}
