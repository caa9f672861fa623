// Package backend provides a minimal JSON-over-HTTP client for the agent
// backends (Lexi, Juris, Filora, Sage, Donna) that tool handlers call.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wagiedev/agent-mcp-go/internal/errors"
)

// DefaultTimeout bounds a single backend request when no timeout is configured.
const DefaultTimeout = 120 * time.Second

// maxErrorBody caps how much of a failed response body is kept for the error message.
const maxErrorBody = 4 << 10

// Client calls one backend service.
type Client struct {
	Service string
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for service at baseURL. A non-positive timeout uses DefaultTimeout.
func New(service, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		Service: service,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// PostJSON sends body as JSON to path and decodes the JSON response into out.
// out may be nil when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail(http.MethodPost, path, 0, "", fmt.Errorf("encode request: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(http.MethodPost, path, resp, out)
}

// GetJSON issues a GET for path with query parameters and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(http.MethodGet, path, resp, out)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	accept string,
) (*http.Response, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, c.fail(method, path, 0, "", fmt.Errorf("invalid url: %w", err))
	}

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, c.fail(method, path, 0, "", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", accept)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, c.fail(method, path, 0, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()

		return nil, c.fail(method, path, resp.StatusCode, readDetail(resp.Body), nil)
	}

	return resp, nil
}

func (c *Client) decode(method, path string, resp *http.Response, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(method, path, resp.StatusCode, "", fmt.Errorf("malformed JSON response: %w", err))
	}

	return nil
}

func (c *Client) fail(method, path string, status int, detail string, err error) error {
	return &errors.BackendError{
		Service:    c.Service,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     detail,
		Err:        err,
	}
}

// readDetail extracts a human-readable message from an error response.
// FastAPI backends answer with {"detail": ...}; anything else is returned as text.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}

	if json.Unmarshal(raw, &body) == nil {
		switch d := body.Detail.(type) {
		case string:
			return d
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}

		if body.Error != "" {
			return body.Error
		}
	}

	return strings.TrimSpace(string(raw))
}
