package browser

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

const (
	statusFailed = "failed"
	maxValueLen  = 2000
)

type location struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Selector    string `json:"selector"`
	TagName     string `json:"tag_name"`
	TextContent string `json:"text_content"`
}

type taskResponse struct {
	TaskID        string         `json:"task_id"`
	Status        string         `json:"status"`
	Result        map[string]any `json:"result"`
	Screenshots   []string       `json:"screenshots"`
	ExecutionTime float64        `json:"execution_time"`
	Message       string         `json:"message"`
	Error         string         `json:"error"`
	Locations     []location     `json:"locations"`
}

// format renders the task outcome. Failed tasks become errors.
func (r taskResponse) format() (string, error) {
	if r.Status == statusFailed {
		msg := r.Error
		if msg == "" {
			msg = r.Message
		}

		return "", fmt.Errorf("browser task %s failed: %s", r.TaskID, msg)
	}

	var b toolkit.Builder

	b.Linef("Task %s %s in %ss", r.TaskID, orDefault(r.Status, "completed"),
		strconv.FormatFloat(r.ExecutionTime, 'f', 1, 64))
	b.Field("Message", r.Message)

	if len(r.Result) > 0 {
		b.Heading("Result:")

		for _, key := range slices.Sorted(maps.Keys(r.Result)) {
			b.Linef("- %s: %s", key, toolkit.Truncate(display(r.Result[key]), maxValueLen))
		}
	}

	if len(r.Locations) > 0 {
		b.Heading("Elements:")

		for _, l := range r.Locations {
			line := fmt.Sprintf("- %s at (%d, %d)", l.Selector, l.X, l.Y)
			if l.TagName != "" {
				line += " <" + l.TagName + ">"
			}

			if l.TextContent != "" {
				line += " " + strconv.Quote(toolkit.Truncate(l.TextContent, 80))
			}

			b.Linef("%s", line)
		}
	}

	if n := len(r.Screenshots); n > 0 {
		b.Heading(fmt.Sprintf("%d screenshot(s) captured", n))
	}

	return b.Text(), nil
}

func display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return toolkit.Compact(v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
