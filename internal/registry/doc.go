// Package registry implements the immutable tool catalog served by the MCP
// servers.
//
// A Registry is built once at startup from one or more tool sets, rejects
// duplicate names at construction time, and exposes two operations: List,
// which returns descriptors in insertion order, and Invoke, which never
// fails. Every outcome of Invoke, including an unknown tool name, arguments
// that do not match the tool's schema and handler errors, is returned as an
// MCP CallToolResult with IsError set, so the calling model can read the
// failure as tool output.
package registry
