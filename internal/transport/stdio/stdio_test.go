package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
	"github.com/wagiedev/agent-mcp-go/internal/protocol"
	"github.com/wagiedev/agent-mcp-go/internal/registry"
)

type echoArgs struct {
	Text string `json:"text"`
}

func newServer() *protocol.Server {
	reg := registry.MustNew(registry.NewTool("echo", "Echo the input",
		func(_ context.Context, in echoArgs) (string, error) { return in.Text, nil }))

	return protocol.NewServer(reg, protocol.Options{Name: "stdio-test", Version: "0.0.1"})
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	server := newServer()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- Run(ctx, discard(), server, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "over stdio"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	require.Equal(t, protocol.StateClosed, server.State())
}

// TestRun_NewlineDelimitedStream drives the transport with raw JSON-RPC lines,
// the way an MCP host talks to a child process.
func TestRun_NewlineDelimitedStream(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, discard(), newServer(), &mcp.IOTransport{Reader: inR, Writer: outW})
	}()

	responses := bufio.NewScanner(outR)
	send := func(msg string) {
		_, err := io.WriteString(inW, msg+"\n")
		require.NoError(t, err)
	}
	next := func() map[string]any {
		require.True(t, responses.Scan(), "expected a response line")

		var msg map[string]any
		require.NoError(t, json.Unmarshal(responses.Bytes(), &msg))

		return msg
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"raw","version":"1"}}}`)
	initResp := next()
	require.EqualValues(t, 1, initResp["id"])
	require.Contains(t, initResp, "result")

	send(`{"jsonrpc":"2.0","method":"notifications/initialized","params":{}}`)
	send(`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`)
	listResp := next()
	require.EqualValues(t, 2, listResp["id"])

	tools := listResp["result"].(map[string]any)["tools"].([]any)
	require.Len(t, tools, 1)
	require.Equal(t, "echo", tools[0].(map[string]any)["name"])

	send(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"missing","arguments":{}}}`)
	callResp := next()
	require.EqualValues(t, 3, callResp["id"])

	result := callResp["result"].(map[string]any)
	require.Equal(t, true, result["isError"])

	require.NoError(t, inW.Close())

	select {
	case err := <-done:
		if err != nil {
			require.ErrorIs(t, err, errors.ErrTransportClosed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the input stream closed")
	}
}
