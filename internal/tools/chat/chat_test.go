package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/agent-mcp-go/internal/backend"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
)

func invoke(t *testing.T, handler http.HandlerFunc, args string) (string, bool) {
	t.Helper()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	reg := registry.MustNew(Tools(backend.New("sage", srv.URL, 5*time.Second))...)
	result := reg.Invoke(context.Background(), "sage_chat", json.RawMessage(args))
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestSageChat(t *testing.T) {
	text, isErr := invoke(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sage/chat", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["prompt"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, false, req["use_web_search"])
		assert.Equal(t, 0.5, req["temperature"])
		assert.NotContains(t, req, "chat_id")

		_, _ = w.Write([]byte(`{"text":"Hi there.","chat_id":"c-42","tool_calls":[{"name":"web"}],"messages":[]}`))
	}, `{"prompt":"hello","temperature":0.5}`)

	require.False(t, isErr)
	require.Equal(t, "Hi there.\n\nTool calls made: 1\n\nchat_id: c-42", text)
}

func TestSageChat_NullText(t *testing.T) {
	text, isErr := invoke(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":null,"chat_id":"c-1"}`))
	}, `{"prompt":"hello","chat_id":"c-1"}`)

	require.False(t, isErr)
	require.Equal(t, "(Sage returned no text)\n\nchat_id: c-1", text)
}

func TestSageChat_Validation(t *testing.T) {
	called := false
	handler := func(http.ResponseWriter, *http.Request) { called = true }

	text, isErr := invoke(t, handler, `{"prompt":" "}`)
	require.True(t, isErr)
	require.Contains(t, text, "prompt must not be blank")

	text, isErr = invoke(t, handler, `{"prompt":"x","temperature":3}`)
	require.True(t, isErr)
	require.Contains(t, text, "temperature must be between 0 and 2, got 3")

	require.False(t, called)
}

func TestSageChat_BackendError(t *testing.T) {
	text, isErr := invoke(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"prompt is required"}`))
	}, `{"prompt":"x"}`)

	require.True(t, isErr)
	require.Contains(t, text, "status 400")
	require.Contains(t, text, "prompt is required")
}
