package protocol

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/registry"
)

const (
	methodListTools = "tools/list"
	methodCallTool  = "tools/call"
)

// State is the lifecycle state of a Server.
type State int32

const (
	// StateUninitialized is the state before the client completes the initialize handshake.
	StateUninitialized State = iota
	// StateReady is the state in which tools may be listed and called.
	StateReady
	// StateClosed is the state after the owning transport tore the server down.
	StateClosed
)

// String returns a textual representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Server.
type Options struct {
	// Name and Version are reported to clients in the initialize response.
	Name    string
	Version string

	// Instructions is optional free text returned during initialization.
	Instructions string

	// Logger receives protocol diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// Server is a transport-agnostic MCP server fronting a tool registry.
type Server struct {
	log      *slog.Logger
	registry *registry.Registry
	mcp      *mcp.Server
	state    atomic.Int32
}

// NewServer creates a Server exposing every tool in reg.
func NewServer(reg *registry.Registry, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		log:      log.With("component", "protocol"),
		registry: reg,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: opts.Name, Version: opts.Version},
		&mcp.ServerOptions{
			Instructions:       opts.Instructions,
			Logger:             log,
			InitializedHandler: s.handleInitialized,
		},
	)

	// Registering every tool makes the SDK advertise the tools capability.
	handler := reg.Handler()
	for _, tool := range reg.List() {
		s.mcp.AddTool(tool, handler)
	}

	s.mcp.AddReceivingMiddleware(s.toolMiddleware)

	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Registry returns the registry served by s.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// MarkClosed moves the server to StateClosed. Transports call it once the
// connection backing the server is gone.
func (s *Server) MarkClosed() {
	if prev := State(s.state.Swap(int32(StateClosed))); prev != StateClosed {
		s.log.Debug("Protocol server closed", "previous_state", prev.String())
	}
}

// Connect attaches the server to transport and returns the resulting session.
// The session runs until the transport closes or the session is closed.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

// Run serves a single client on transport until it disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	defer s.MarkClosed()

	return s.mcp.Run(ctx, transport)
}

func (s *Server) handleInitialized(_ context.Context, _ *mcp.InitializedRequest) {
	if s.state.CompareAndSwap(int32(StateUninitialized), int32(StateReady)) {
		s.log.Debug("Protocol server ready")
	}
}

// toolMiddleware serves tools/list in registration order and sends every
// tools/call, including calls to unknown tools, through the registry.
func (s *Server) toolMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case methodListTools:
			return &mcp.ListToolsResult{Tools: s.registry.List()}, nil

		case methodCallTool:
			call, ok := req.(*mcp.CallToolRequest)
			if !ok || call.Params == nil {
				return next(ctx, method, req)
			}

			start := time.Now()
			result := s.registry.Invoke(ctx, call.Params.Name, call.Params.Arguments)

			s.log.Debug("Tool call finished",
				"tool", call.Params.Name,
				"is_error", result.IsError,
				"duration", time.Since(start),
			)

			return result, nil
		}

		return next(ctx, method, req)
	}
}
