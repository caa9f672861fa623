package patent

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

	return registry.MustNew(Tools(backend.New("juris", srv.URL, 5*time.Second))...)
}

func invoke(t *testing.T, reg *registry.Registry, name, args string) (string, bool) {
	t.Helper()

	result := reg.Invoke(context.Background(), name, json.RawMessage(args))
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestPatentSearch(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/patent/search", r.URL.Path)

		var req searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a self-heating mug", req.Description)
		assert.Equal(t, "Mug", req.Title)
		assert.True(t, req.UseWebSearch)
		assert.False(t, req.UseLocalCorpus)
		assert.Equal(t, 5, req.MaxLocalResults)
		assert.Equal(t, 2, req.MaxWebResults)

		_, _ = w.Write([]byte(`{
			"query_description": "a self-heating mug",
			"similar_patents": [
				{"title":"Heated beverage container","description":"A container with an embedded heater.",
				 "source":"https://patents.example/US123","similarity_score":0.9312,
				 "patent_number":"US123","filing_date":"2019-04-01","result_type":"web_search"}
			],
			"local_results_count": 0,
			"web_results_count": 1,
			"total_results": 1,
			"search_summary": "Found 0 similar patents in local corpus and 1 from web search"
		}`))
	})

	text, isErr := invoke(t, reg, "patent_search",
		`{"description":"a self-heating mug","title":"Mug","use_local_corpus":false,"max_web_results":2}`)
	require.False(t, isErr)
	require.Contains(t, text, "Found 0 similar patents in local corpus and 1 from web search")
	require.Contains(t, text, "1. Heated beverage container (similarity 0.931)")
	require.Contains(t, text, "Patent number: US123")
	require.Contains(t, text, "Found in: web search")
	require.NotContains(t, text, "Assignee:")
}

func TestPatentSearch_Validation(t *testing.T) {
	reg := newRegistry(t, func(http.ResponseWriter, *http.Request) {
		t.Error("backend must not be called for invalid arguments")
	})

	text, isErr := invoke(t, reg, "patent_search", `{"description":""}`)
	require.True(t, isErr)
	require.Contains(t, text, "description must not be blank")

	text, isErr = invoke(t, reg, "patent_search", `{"description":"x","max_local_results":50}`)
	require.True(t, isErr)
	require.Contains(t, text, "max_local_results must be between 1 and 20")

	_, isErr = invoke(t, reg, "patent_search", `{"description":42}`)
	require.True(t, isErr)
}

func TestPatentSearchLocal(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patent/search-local", r.URL.Path)
		assert.Equal(t, "heater", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))

		_, _ = w.Write([]byte(`{"query":"heater","results":[{"text":"claim 1 ...","similarity":0.5,"document_name":"US999.pdf"}]}`))
	})

	text, isErr := invoke(t, reg, "patent_search_local", `{"query":"heater"}`)
	require.False(t, isErr)
	require.Contains(t, text, `Found 1 local passages for "heater":`)
	require.Contains(t, text, "[1] US999.pdf (similarity 0.500)")
}

func TestPatentSearchLocal_Empty(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":"heater","results":[]}`))
	})

	text, isErr := invoke(t, reg, "patent_search_local", `{"query":"heater"}`)
	require.False(t, isErr)
	require.Equal(t, `No patents in the local corpus match "heater".`, text)
}

func TestPatentStatus(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patent/status", r.URL.Path)

		_, _ = w.Write([]byte(`{"patent_corpus_loaded":false,"corpus_chunks":0,"web_search_available":true,
			"api_keys_configured":{"openai":true,"exa":false}}`))
	})

	text, isErr := invoke(t, reg, "patent_status", `{}`)
	require.False(t, isErr)
	require.Equal(t, "Patent corpus loaded: false\nCorpus chunks: 0\nWeb search available: true\n"+
		"openai key configured: true\nexa key configured: false", text)
}

func TestPatentStatus_MalformedResponse(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	text, isErr := invoke(t, reg, "patent_status", `{}`)
	require.True(t, isErr)
	require.Contains(t, text, "malformed JSON response")
}

func TestPatentReload(t *testing.T) {
	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/patent/reload", r.URL.Path)

		_, _ = w.Write([]byte(`{}`))
	})

	text, isErr := invoke(t, reg, "patent_reload", ``)
	require.False(t, isErr)
	require.Equal(t, "Patent corpus reloaded.", text)

	tool, ok := reg.Lookup("patent_reload")
	require.True(t, ok)
	require.NotNil(t, tool.Annotations)
	require.False(t, tool.Annotations.ReadOnlyHint)
}
