// Package errors defines error types for the agent MCP servers.
//
// This package provides sentinel errors for conditions that callers branch
// on, and structured error types for configuration, argument validation and
// backend failures. All error types support unwrapping and can be checked
// using errors.Is and errors.As.
package errors
