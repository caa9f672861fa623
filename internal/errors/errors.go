package errors

import (
	"errors"
	"fmt"
	"strings"
)

// AgentMCPError is the base interface for all structured errors in this module.
type AgentMCPError interface {
	error
	IsAgentMCPError() bool
}

// Compile-time verification that all error types implement AgentMCPError.
var (
	_ AgentMCPError = (*ConfigError)(nil)
	_ AgentMCPError = (*ValidationError)(nil)
	_ AgentMCPError = (*BackendError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrDuplicateTool indicates two tools were registered under the same name.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrInvalidTool indicates a tool definition is incomplete.
	ErrInvalidTool = errors.New("invalid tool definition")

	// ErrSessionNotFound indicates a request referenced an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTransportClosed indicates the transport stopped because its channel broke.
	ErrTransportClosed = errors.New("transport closed")

	// ErrMissingConfig indicates a required configuration value was not provided.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrHelp indicates --help was requested. It is not a failure.
	ErrHelp = errors.New("help requested")
)

// ConfigError indicates a startup configuration value is missing or malformed.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Key, e.Reason, e.Err)
	}

	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsAgentMCPError implements AgentMCPError.
func (e *ConfigError) IsAgentMCPError() bool { return true }

// ValidationError indicates tool arguments failed the tool's shape checks.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsAgentMCPError implements AgentMCPError.
func (e *ValidationError) IsAgentMCPError() bool { return true }

// BackendError indicates a call to a downstream backend failed.
// StatusCode is zero when no HTTP response was received.
type BackendError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Err        error
}

func (e *BackendError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s", e.Service, e.Method, e.Path)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}

	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsAgentMCPError implements AgentMCPError.
func (e *BackendError) IsAgentMCPError() bool { return true }
