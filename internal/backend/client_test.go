package backend

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/legal/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"answer":"echo %s"}`, in["question"])
	}))
	defer srv.Close()

	c := New("lexi", srv.URL+"/", time.Second)

	var out struct {
		Answer string `json:"answer"`
	}
	err := c.PostJSON(context.Background(), "/legal/chat", map[string]any{"question": "q"}, &out)

	require.NoError(t, err)
	require.Equal(t, "echo q", out.Answer)
}

func TestGetJSON_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "contracts", r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("max_results"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := New("lexi", srv.URL, 0)
	require.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	var out map[string]any
	err := c.GetJSON(context.Background(), "/legal/search", url.Values{
		"query":       {"contracts"},
		"max_results": {"3"},
	}, &out)

	require.NoError(t, err)
	require.Contains(t, out, "results")
}

func TestNon2xxIncludesStatusAndDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Legal knowledge base not loaded"}`))
	}))
	defer srv.Close()

	err := New("lexi", srv.URL, time.Second).GetJSON(context.Background(), "/legal/search", nil, nil)

	var berr *errors.BackendError
	require.True(t, goerrors.As(err, &berr))
	require.Equal(t, http.StatusServiceUnavailable, berr.StatusCode)
	require.Equal(t, "Legal knowledge base not loaded", berr.Detail)
	require.Contains(t, err.Error(), "503")
}

func TestNon2xxStructuredDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","url"],"msg":"field required"}]}`))
	}))
	defer srv.Close()

	err := New("filora", srv.URL, time.Second).PostJSON(context.Background(), "/action", map[string]any{}, nil)

	require.Error(t, err)
	require.Contains(t, err.Error(), "field required")
	require.Contains(t, err.Error(), "422")
}

func TestNon2xxPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New("sage", srv.URL, time.Second).PostJSON(context.Background(), "/sage/chat", map[string]any{}, nil)

	require.ErrorContains(t, err, "status 502: bad gateway")
}

func TestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"answer":`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New("lexi", srv.URL, time.Second).GetJSON(context.Background(), "/legal/status", nil, &out)

	require.ErrorContains(t, err, "malformed JSON response")
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	err := New("juris", base, time.Second).GetJSON(context.Background(), "/patent/status", nil, nil)

	var berr *errors.BackendError
	require.True(t, goerrors.As(err, &berr))
	require.Zero(t, berr.StatusCode)
	require.Error(t, berr.Err)
}

func TestPostStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(strings.Join([]string{
			": keepalive",
			"event: status",
			`data: {"message":"starting_workflow"}`,
			"",
			"event: memo",
			`data: {"title":"Case",`,
			`data: "body":"text"}`,
			"",
			`data: {"orphan":true}`,
		}, "\n")))
	}))
	defer srv.Close()

	var events []Event
	err := New("donna", srv.URL, time.Second).PostStream(context.Background(), "/donna/workflow", map[string]any{},
		func(ev Event) error {
			events = append(events, ev)

			return nil
		})

	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, Event{Name: "status", Data: `{"message":"starting_workflow"}`}, events[0])
	require.Equal(t, "memo", events[1].Name)
	require.Equal(t, "{\"title\":\"Case\",\n\"body\":\"text\"}", events[1].Data)
	require.Equal(t, "message", events[2].Name)
}

func TestPostStream_CallbackStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("event: a\ndata: 1\n\nevent: b\ndata: 2\n\n"))
	}))
	defer srv.Close()

	stop := goerrors.New("stop")
	calls := 0
	err := New("donna", srv.URL, time.Second).PostStream(context.Background(), "/donna/workflow", nil,
		func(Event) error {
			calls++

			return stop
		})

	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}
