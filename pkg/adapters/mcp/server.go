package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/pkg/ports"
)

// FindArgs are the arguments of the find_connection tool.
type FindArgs struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// FindResult aligns with the HTTP API response and adds the plain text report.
type FindResult struct {
	*format.View
	Report string `json:"report" jsonschema_description:"Human readable summary of the connection"`
}

// Server wraps a Connector and exposes it as an MCP Server.
type Server struct {
	conn      ports.Connector
	names     ports.NameResolver
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithNames resolves display names in results.
func WithNames(n ports.NameResolver) Option {
	return func(s *Server) { s.names = n }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(conn ports.Connector, version string, opts ...Option) *Server {
	s := &Server{
		conn:      conn,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("tropelink-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: find_connection
	findTool := mcp.NewTool("find_connection",
		mcp.WithDescription("Find the shortest chain of shared tropes connecting two works. "+
			"Works are given as TV Tropes page URLs."),
		mcp.WithString("source", mcp.Required(), mcp.Description("URL of the initial work")),
		mcp.WithString("target", mcp.Required(), mcp.Description("URL of the final work")),
		mcp.WithOutputSchema[FindResult](),
	)
	s.mcpServer.AddTool(findTool, mcp.NewStructuredToolHandler(s.handleFind))
}

func (s *Server) handleFind(ctx context.Context, request mcp.CallToolRequest, args FindArgs) (FindResult, error) {
	if args.Source == "" || args.Target == "" {
		return FindResult{}, fmt.Errorf("source and target are required")
	}

	path, err := s.conn.Connect(ctx, args.Source, args.Target)
	if err != nil {
		s.logger.Warn("MCP find_connection failed", "source", args.Source, "target", args.Target, "error", err)
		return FindResult{}, err
	}

	view := format.Resolve(ctx, path, s.names)
	var report bytes.Buffer
	if err := format.Text(&report, view); err != nil {
		return FindResult{}, fmt.Errorf("rendering report: %w", err)
	}

	return FindResult{View: view, Report: report.String()}, nil
}
