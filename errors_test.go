package agentmcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigError_IsAgentMCPError(t *testing.T) {
	err := fmt.Errorf("startup: %w", &ConfigError{Key: "LEXI_BACKEND_URL", Reason: "required", Err: ErrMissingConfig})

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "LEXI_BACKEND_URL", cerr.Key)
	require.ErrorIs(t, err, ErrMissingConfig)

	var base AgentMCPError
	require.True(t, errors.As(err, &base))
}

func TestBackendError_Message(t *testing.T) {
	err := &BackendError{Service: "lexi", Method: "GET", Path: "/legal/status", StatusCode: 503, Detail: "not loaded"}

	require.Contains(t, err.Error(), "lexi GET /legal/status")
	require.Contains(t, err.Error(), "status 503")
	require.Contains(t, err.Error(), "not loaded")
}
