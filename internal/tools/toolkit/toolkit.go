// Package toolkit holds the small helpers shared by the tool families:
// argument checks, optional-value defaults and text formatting.
package toolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadOnly returns annotations for a tool that only queries its backend.
func ReadOnly(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{Title: title, ReadOnlyHint: true}
}

// Action returns annotations for a tool with side effects in the outside world.
func Action(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{Title: title}
}

// NotBlank reports an error when value is empty or only whitespace.
func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be blank", field)
	}

	return nil
}

// InRange reports an error when a set value lies outside [lo, hi].
// A nil value is treated as unset and accepted.
func InRange(field string, value *int, lo, hi int) error {
	if value == nil {
		return nil
	}

	if *value < lo || *value > hi {
		return fmt.Errorf("%s must be between %d and %d, got %d", field, lo, hi, *value)
	}

	return nil
}

// OneOf reports an error when value is not one of allowed.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// Or returns *p, or def when p is nil.
func Or[T any](p *T, def T) T {
	if p == nil {
		return def
	}

	return *p
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)

	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}

	return string(r[:n]) + "…"
}

// Compact renders v as single-line JSON, or with %v when it cannot be encoded.
func Compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(b)
}

// Builder accumulates tool output text.
type Builder struct {
	strings.Builder
}

// Linef appends a formatted line.
func (b *Builder) Linef(format string, args ...any) {
	fmt.Fprintf(&b.Builder, format, args...)
	b.WriteByte('\n')
}

// Field appends "label: value" when value is not blank.
func (b *Builder) Field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}

	b.Linef("%s: %s", label, value)
}

// Heading appends a blank separator line (unless b is empty) and a heading.
func (b *Builder) Heading(title string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}

	b.Linef("%s", title)
}

// Text returns the accumulated output without trailing whitespace.
func (b *Builder) Text() string {
	return strings.TrimRight(b.String(), "\n ")
}
