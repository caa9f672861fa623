// Package network serves the MCP servers to many concurrent HTTP clients.
//
// Each client gets its own session: a fresh protocol.Server bound to an
// mcp.StreamableServerTransport, identified by an unguessable id that is
// returned in the Mcp-Session-Id header and must accompany every later
// request. The Handler exclusively owns the session map. Entries are added
// when a POST /mcp arrives without a session id and removed only by the
// session's close hook, which fires when the session ends for any reason:
// a DELETE from the client, idle reaping, or server shutdown.
//
// Routes:
//
//	POST   /mcp     create a session (no header) or continue one
//	GET    /mcp     open the session's server-to-client event stream
//	DELETE /mcp     end the session
//	GET    /sse     legacy HTTP+SSE transport, one server per connection
//	POST   /sse     message channel of the legacy transport
//	GET    /health  liveness probe
//
// Every other method and path answers 404.
package network
