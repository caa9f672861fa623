// Package protocol binds a tool registry to the Model Context Protocol.
//
// A Server answers the two tool requests of the protocol: tools/list is
// served from the registry in registration order, and tools/call is routed
// to registry.Invoke, whose failures come back as successful responses with
// IsError set rather than JSON-RPC errors. Message framing, the initialize
// handshake and rejection of unsupported methods are handled by the
// official MCP SDK.
//
// A Server holds no session state of its own beyond its lifecycle State;
// transports create one Server per client and attach it with Connect or Run:
//
//	server := protocol.NewServer(reg, protocol.Options{Name: "lexi-mcp", Version: "1.0.0"})
//	err := server.Run(ctx, &mcp.StdioTransport{})
package protocol
