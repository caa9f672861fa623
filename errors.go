package agentmcp

import "github.com/wagiedev/agent-mcp-go/internal/errors"

// Re-export error types from internal package

// ConfigError indicates a missing or malformed configuration value.
type ConfigError = errors.ConfigError

// ValidationError indicates tool arguments that failed validation.
type ValidationError = errors.ValidationError

// BackendError indicates a failed call to an agent backend.
type BackendError = errors.BackendError

// AgentMCPError is the base interface for all typed errors.
type AgentMCPError = errors.AgentMCPError

// Re-export sentinel errors from internal package.
var (
	// ErrDuplicateTool indicates two tools share a name.
	ErrDuplicateTool = errors.ErrDuplicateTool

	// ErrInvalidTool indicates a tool without a name, schema or handler.
	ErrInvalidTool = errors.ErrInvalidTool

	// ErrSessionNotFound indicates an unknown or closed HTTP session.
	ErrSessionNotFound = errors.ErrSessionNotFound

	// ErrTransportClosed indicates the transport failed.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrMissingConfig indicates a required configuration value is unset.
	ErrMissingConfig = errors.ErrMissingConfig
)
