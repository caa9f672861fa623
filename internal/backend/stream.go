package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxEventSize bounds a single server-sent event line.
const maxEventSize = 1 << 20

// Event is one server-sent event from a streaming backend response.
type Event struct {
	Name string
	Data string
}

// PostStream sends body as JSON to path and calls fn for each server-sent
// event in the response, in order. Returning an error from fn stops reading
// and that error is returned.
func (c *Client) PostStream(ctx context.Context, path string, body any, fn func(Event) error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail(http.MethodPost, path, 0, "", fmt.Errorf("encode request: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "text/event-stream")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := readEvents(resp.Body, fn); err != nil {
		return c.fail(http.MethodPost, path, resp.StatusCode, "", err)
	}

	return nil
}

// readEvents parses the text/event-stream format: "event:" and "data:"
// fields, with events separated by a blank line.
func readEvents(r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var (
		ev   Event
		data []string
	)

	flush := func() error {
		if ev.Name == "" && len(data) == 0 {
			return nil
		}

		if ev.Name == "" {
			ev.Name = "message"
		}

		ev.Data = strings.Join(data, "\n")
		err := fn(ev)
		ev, data = Event{}, nil

		return err
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}

	return flush()
}
