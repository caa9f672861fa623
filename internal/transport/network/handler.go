package network

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
	"github.com/wagiedev/agent-mcp-go/internal/protocol"
)

// SessionHeader carries the session id on requests and on the response that creates a session.
const SessionHeader = "Mcp-Session-Id"

const (
	methodInitialize = "initialize"

	// maxBodyBytes bounds the initialize request read before a session exists.
	maxBodyBytes = 4 << 20
)

var errShuttingDown = goerrors.New("server is shutting down")

// ServerFactory returns a new protocol server for one client.
// Servers may share a registry; they must not share a protocol.Server.
type ServerFactory func() *protocol.Server

// Options configures a Handler.
type Options struct {
	// Service is reported by /health.
	Service string

	// IdleTimeout closes sessions that have seen no request for this long.
	// Zero disables idle reaping.
	IdleTimeout time.Duration

	// Logger receives transport diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// Handler is the multi-session HTTP transport. It is safe for concurrent use.
type Handler struct {
	log         *slog.Logger
	service     string
	newServer   ServerFactory
	idleTimeout time.Duration
	router      chi.Router
	legacy      *mcp.SSEHandler

	// stopped is cancelled by Close to end legacy streams.
	stopped context.Context
	stop    context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// NewHandler creates a Handler that builds one protocol server per client with newServer.
func NewHandler(newServer ServerFactory, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	stopped, stop := context.WithCancel(context.Background())

	h := &Handler{
		log:         log.With("component", "network"),
		service:     opts.Service,
		newServer:   newServer,
		idleTimeout: opts.IdleTimeout,
		stopped:     stopped,
		stop:        stop,
		sessions:    make(map[string]*session, 16),
	}

	h.legacy = mcp.NewSSEHandler(h.legacyServer, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", h.handleHealth)

	r.Post("/mcp", h.handleMCP)
	r.Get("/mcp", h.handleMCP)
	r.Delete("/mcp", h.handleMCP)

	r.Get("/sse", h.handleLegacy)
	r.Post("/sse", h.handleLegacy)

	h.router = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Sessions returns the number of active sessions.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.sessions)
}

// Close ends every session and legacy stream and refuses new sessions.
// Sessions are removed from the map by their close hooks.
func (h *Handler) Close() {
	h.mu.Lock()
	h.closed = true
	active := make([]*session, 0, len(h.sessions))

	for _, s := range h.sessions {
		active = append(active, s)
	}
	h.mu.Unlock()

	h.stop()

	for _, s := range active {
		h.closeSession(s, "shutdown")
	}
}

func (h *Handler) handleMCP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if r.Method != http.MethodPost {
			http.Error(w, "Bad Request: missing "+SessionHeader+" header", http.StatusBadRequest)

			return
		}

		if !isInitialize(w, r) {
			http.Error(w, "Bad Request: a session must start with an initialize request", http.StatusBadRequest)

			return
		}

		s, err := h.createSession()
		if err != nil {
			h.log.Error("Failed to create session", "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)

			return
		}

		w.Header().Set(SessionHeader, s.id)
		s.transport.ServeHTTP(w, r)

		return
	}

	s, err := h.lookup(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)

		return
	}

	s.touch(time.Now())

	switch r.Method {
	case http.MethodDelete:
		h.closeSession(s, "client request")
		w.WriteHeader(http.StatusNoContent)

		return
	case http.MethodGet:
		// The stream keeps the session in use for as long as it is open.
		s.streams.Add(1)
		defer func() {
			s.streams.Add(-1)
			s.touch(time.Now())
		}()
	}

	s.transport.ServeHTTP(w, r)
}

// isInitialize reports whether the body of r is a JSON-RPC initialize
// request. The body is restored for the transport.
func isInitialize(w http.ResponseWriter, r *http.Request) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return false
	}

	r.Body = io.NopCloser(bytes.NewReader(body))

	var msg struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
	}

	if err := json.Unmarshal(body, &msg); err != nil {
		return false
	}

	return msg.Method == methodInitialize && len(msg.ID) > 0 && string(msg.ID) != "null"
}

// createSession connects a fresh protocol server to a new transport binding
// and stores it. The close hook is installed only after the insert, so the
// delete can never precede it.
func (h *Handler) createSession() (*session, error) {
	s := newSession(newSessionID(), h.newServer())

	// The session outlives the request that created it and carries none of its values.
	conn, err := s.server.Connect(context.Background(), s.transport)
	if err != nil {
		return nil, err
	}

	s.conn = conn

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()

		return nil, errShuttingDown
	}

	h.sessions[s.id] = s
	active := len(h.sessions)
	h.mu.Unlock()

	go h.awaitClose(s)

	h.log.Info("Session created", "session_id", s.id, "active", active)

	return s, nil
}

func (h *Handler) lookup(id string) (*session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}

	return s, nil
}

// awaitClose is the session's close hook and the only place entries leave the map.
func (h *Handler) awaitClose(s *session) {
	err := s.conn.Wait()
	s.server.MarkClosed()

	h.mu.Lock()
	delete(h.sessions, s.id)
	active := len(h.sessions)
	h.mu.Unlock()

	attrs := []any{"session_id", s.id, "active", active, "lifetime", time.Since(s.created)}
	if err != nil {
		attrs = append(attrs, "error", err)
	}

	h.log.Info("Session closed", attrs...)
}

func (h *Handler) closeSession(s *session, reason string) {
	h.log.Debug("Closing session", "session_id", s.id, "reason", reason)

	if err := s.conn.Close(); err != nil {
		h.log.Debug("Session close returned error", "session_id", s.id, "error", err)
	}
}

// reapIdle closes sessions idle for longer than the idle timeout and reports how many.
// Sessions with an open event stream are never idle.
func (h *Handler) reapIdle(now time.Time) int {
	if h.idleTimeout <= 0 {
		return 0
	}

	h.mu.Lock()
	var idle []*session

	for _, s := range h.sessions {
		if s.streams.Load() == 0 && s.idleSince(now) > h.idleTimeout {
			idle = append(idle, s)
		}
	}
	h.mu.Unlock()

	for _, s := range idle {
		h.closeSession(s, "idle")
	}

	return len(idle)
}

// runReaper calls reapIdle periodically until ctx is done.
func (h *Handler) runReaper(ctx context.Context) error {
	if h.idleTimeout <= 0 {
		return nil
	}

	interval := min(h.idleTimeout/2, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := h.reapIdle(now); n > 0 {
				h.log.Info("Reaped idle sessions", "count", n)
			}
		}
	}
}

type legacyKey struct{}

// legacyConn records the protocol server created for one legacy stream.
type legacyConn struct {
	server *protocol.Server
}

func (h *Handler) legacyServer(r *http.Request) *mcp.Server {
	server := h.newServer()
	if lc, ok := r.Context().Value(legacyKey{}).(*legacyConn); ok {
		lc.server = server
	}

	return server.MCP()
}

// handleLegacy serves the HTTP+SSE transport. Each GET stream gets its own
// protocol server that lives exactly as long as the connection; POSTs carry
// client messages to the stream named by their sessionid query parameter.
func (h *Handler) handleLegacy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.legacy.ServeHTTP(w, r)

		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	unlink := context.AfterFunc(h.stopped, cancel)
	defer unlink()

	lc := &legacyConn{}
	ctx = context.WithValue(ctx, legacyKey{}, lc)

	h.log.Info("Legacy SSE stream opened", "remote", r.RemoteAddr)
	h.legacy.ServeHTTP(w, r.WithContext(ctx))

	if lc.server != nil {
		lc.server.MarkClosed()
	}

	h.log.Info("Legacy SSE stream closed", "remote", r.RemoteAddr)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   h.service,
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

// logRequests logs each request once it completes.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"session_id", r.Header.Get(SessionHeader),
		)
	})
}
