package legal

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

func newRegistry(t *testing.T, handler http.HandlerFunc) *registry.Registry {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return registry.MustNew(Tools(backend.New("lexi", srv.URL, 5*time.Second))...)
}

func invoke(t *testing.T, reg *registry.Registry, name, args string) (string, bool) {
	t.Helper()

	result := reg.Invoke(context.Background(), name, json.RawMessage(args))
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestTools_Names(t *testing.T) {
	reg := registry.MustNew(Tools(backend.New("lexi", "http://localhost:1", time.Second))...)

	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name)
		require.NotNil(t, tool.Annotations)
		require.Equal(t, tool.Name != "legal_reload", tool.Annotations.ReadOnlyHint, tool.Name)
	}

	require.Equal(t, []string{"legal_chat", "legal_search", "legal_status", "legal_reload"}, names)
}

func TestLegalChat(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/legal/chat", r.URL.Path)

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Is a verbal contract binding?", req.Question)
		assert.False(t, req.UseWebSearch)
		assert.True(t, req.UseLocalDocs)
		assert.Equal(t, 5, req.MaxLocalResults)
		assert.Equal(t, 3, req.MaxWebResults)

		_, _ = w.Write([]byte(`{
			"answer": "Often, yes.",
			"sources": [
				{"type": "local", "title": "Contracts 101", "source": "contracts.pdf", "content": "...", "relevance_score": 0.91},
				{"type": "web", "title": "", "source": "https://example.com/law", "content": "..."}
			],
			"local_context_used": [],
			"web_context_used": [],
			"reasoning": "Used 1 local sources and 1 web sources"
		}`))
	})

	text, isErr := invoke(t, reg, "legal_chat", `{"question":"Is a verbal contract binding?","use_web_search":false}`)
	require.False(t, isErr)
	require.Contains(t, text, "Often, yes.")
	require.Contains(t, text, "1. Contracts 101 [local] (relevance 0.91)")
	require.Contains(t, text, "   contracts.pdf")
	require.Contains(t, text, "2. https://example.com/law [web]")
	require.Contains(t, text, "Used 1 local sources and 1 web sources")
}

func TestLegalChat_Validation(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called for invalid arguments")
	})

	text, isErr := invoke(t, reg, "legal_chat", `{"question":"   "}`)
	require.True(t, isErr)
	require.Contains(t, text, "question must not be blank")

	text, isErr = invoke(t, reg, "legal_chat", `{"question":"q","max_web_results":0}`)
	require.True(t, isErr)
	require.Contains(t, text, "max_web_results must be between 1 and 20")

	_, isErr = invoke(t, reg, "legal_chat", `{}`)
	require.True(t, isErr)
}

func TestLegalSearch(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/legal/search", r.URL.Path)
		assert.Equal(t, "negligence", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("max_results"))

		_, _ = w.Write([]byte(`{"query":"negligence","results":[
			{"text":"Duty of care ...","similarity":0.8123,"document_name":"torts.pdf","chunk_id":4},
			{"text":"Breach ...","similarity":0.75,"document_name":"torts.pdf","chunk_id":"5"}
		]}`))
	})

	text, isErr := invoke(t, reg, "legal_search", `{"query":"negligence","max_results":2}`)
	require.False(t, isErr)
	require.Contains(t, text, `Found 2 passages for "negligence":`)
	require.Contains(t, text, "[1] torts.pdf (similarity 0.812)")
	require.Contains(t, text, "Duty of care ...")
}

func TestLegalSearch_NoResults(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":"x","results":[]}`))
	})

	text, isErr := invoke(t, reg, "legal_search", `{"query":"x"}`)
	require.False(t, isErr)
	require.Equal(t, `No legal passages found for "x".`, text)
}

func TestLegalSearch_BackendUnavailable(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Legal knowledge base not loaded"}`))
	})

	text, isErr := invoke(t, reg, "legal_search", `{"query":"x"}`)
	require.True(t, isErr)
	require.Contains(t, text, "status 503")
	require.Contains(t, text, "Legal knowledge base not loaded")
}

func TestLegalStatus(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/legal/status", r.URL.Path)

		_, _ = w.Write([]byte(`{"legal_retriever_loaded":true,"total_chunks":42,
			"documents":["a.pdf","b.pdf"],"anthropic_configured":true,"exa_configured":false}`))
	})

	text, isErr := invoke(t, reg, "legal_status", ``)
	require.False(t, isErr)
	require.Contains(t, text, "Knowledge base loaded: true")
	require.Contains(t, text, "Indexed chunks: 42")
	require.Contains(t, text, "Web search configured: false")
	require.Contains(t, text, "- b.pdf")
}

func TestLegalReload(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/legal/reload", r.URL.Path)

		_, _ = w.Write([]byte(`{"message":"Legal knowledge base reloaded successfully"}`))
	})

	text, isErr := invoke(t, reg, "legal_reload", `{}`)
	require.False(t, isErr)
	require.Equal(t, "Legal knowledge base reloaded successfully", text)
}

func TestLegalReload_Failure(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Error reloading knowledge base: disk full"}`))
	})

	text, isErr := invoke(t, reg, "legal_reload", `{}`)
	require.True(t, isErr)
	require.Contains(t, text, "status 500")
	require.Contains(t, text, "disk full")
}
