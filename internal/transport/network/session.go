package network

import (
	"crypto/rand"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/agent-mcp-go/internal/protocol"
)

// session is one client's protocol server and its transport binding.
type session struct {
	id        string
	server    *protocol.Server
	transport *mcp.StreamableServerTransport
	conn      *mcp.ServerSession
	created   time.Time

	// lastSeen is the unix-nano time of the most recent request.
	lastSeen atomic.Int64

	// streams counts open GET event streams.
	streams atomic.Int32
}

func newSession(id string, server *protocol.Server) *session {
	now := time.Now()
	s := &session{
		id:        id,
		server:    server,
		transport: &mcp.StreamableServerTransport{SessionID: id},
		created:   now,
	}
	s.touch(now)

	return s
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// newSessionID returns a ULID whose 80 random bits come from crypto/rand,
// so ids cannot be guessed from earlier ones.
func newSessionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
