// Package mcpServer exposes contract questions as Model Context Protocol
// tools, over streamable HTTP or stdio.
package mcpServer

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

var ErrMissingService = errors.New("mcp: rag service is required")

type Server struct {
	rag    rag.Service
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(svc rag.Service) (*Server, error) {
	if svc == nil {
		return nil, ErrMissingService
	}
	s := &Server{
		rag:    svc,
		server: mcp.NewServer(&mcp.Implementation{Name: "contract-rag", Version: Version}, nil),
		logger: logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunStdio blocks until ctx is cancelled or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
