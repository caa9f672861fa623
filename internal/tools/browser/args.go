package browser

import (
	"fmt"
	"net/url"

	"github.com/wagiedev/agent-mcp-go/internal/tools/toolkit"
)

const (
	defaultTimeout = 30
	maxTimeout     = 300
)

// Action types accepted by browser_action.
var actionTypes = []string{"fill_form", "click", "extract", "navigate", "custom"}

// ActionArgs are the arguments of browser_action.
type ActionArgs struct {
	URL          string         `json:"url" jsonschema:"absolute http(s) URL of the page to act on"`
	ActionType   string         `json:"action_type" jsonschema:"one of fill_form, click, extract, navigate, custom"`
	Data         map[string]any `json:"data,omitempty" jsonschema:"action-specific data"`
	Instructions string         `json:"instructions,omitempty" jsonschema:"natural language instructions for the agent"`
	Timeout      *int           `json:"timeout,omitempty" jsonschema:"timeout in seconds (default 30)"`
}

// Validate implements registry.Validator.
func (a *ActionArgs) Validate() error {
	if err := checkURL("url", a.URL); err != nil {
		return err
	}

	if err := toolkit.OneOf("action_type", a.ActionType, actionTypes...); err != nil {
		return err
	}

	return toolkit.InRange("timeout", a.Timeout, 1, maxTimeout)
}

// FormField is one input to fill.
type FormField struct {
	Name      string `json:"name" jsonschema:"field name or selector"`
	Value     string `json:"value" jsonschema:"value to enter"`
	FieldType string `json:"field_type,omitempty" jsonschema:"input type such as text, email or password (default text)"`
	Selector  string `json:"selector,omitempty" jsonschema:"custom CSS selector for the field"`
}

// FillFormArgs are the arguments of browser_fill_form.
type FillFormArgs struct {
	URL      string      `json:"url" jsonschema:"absolute http(s) URL of the page holding the form"`
	FormData []FormField `json:"form_data" jsonschema:"fields to fill, in order"`
	Submit   *bool       `json:"submit,omitempty" jsonschema:"submit the form after filling it (default true)"`
}

// Validate implements registry.Validator.
func (a *FillFormArgs) Validate() error {
	if err := checkURL("url", a.URL); err != nil {
		return err
	}

	if len(a.FormData) == 0 {
		return fmt.Errorf("form_data must contain at least one field")
	}

	for i, f := range a.FormData {
		if err := toolkit.NotBlank(fmt.Sprintf("form_data[%d].name", i), f.Name); err != nil {
			return err
		}
	}

	return nil
}

// ClickArgs are the arguments of browser_click.
type ClickArgs struct {
	URL         string `json:"url" jsonschema:"absolute http(s) URL of the page"`
	Selector    string `json:"selector" jsonschema:"CSS selector of the element to click"`
	Description string `json:"description,omitempty" jsonschema:"human description of the element"`
}

// Validate implements registry.Validator.
func (a *ClickArgs) Validate() error {
	if err := checkURL("url", a.URL); err != nil {
		return err
	}

	return toolkit.NotBlank("selector", a.Selector)
}

// ExtractArgs are the arguments of browser_extract.
type ExtractArgs struct {
	URL          string            `json:"url" jsonschema:"absolute http(s) URL of the page"`
	Selectors    map[string]string `json:"selectors" jsonschema:"output field name to CSS selector"`
	Instructions string            `json:"instructions,omitempty" jsonschema:"extra extraction instructions"`
}

// Validate implements registry.Validator.
func (a *ExtractArgs) Validate() error {
	if err := checkURL("url", a.URL); err != nil {
		return err
	}

	if len(a.Selectors) == 0 {
		return fmt.Errorf("selectors must name at least one field")
	}

	return nil
}

// QueryArgs are the arguments of browser_query.
type QueryArgs struct {
	Query   string         `json:"query" jsonschema:"natural language description of the browsing task"`
	URL     string         `json:"url,omitempty" jsonschema:"starting URL; may be omitted when the query names it"`
	Context map[string]any `json:"context,omitempty" jsonschema:"additional data for the task"`
	Timeout *int           `json:"timeout,omitempty" jsonschema:"timeout in seconds (default 30)"`
}

// Validate implements registry.Validator.
func (a *QueryArgs) Validate() error {
	if err := toolkit.NotBlank("query", a.Query); err != nil {
		return err
	}

	if a.URL != "" {
		if err := checkURL("url", a.URL); err != nil {
			return err
		}
	}

	return toolkit.InRange("timeout", a.Timeout, 1, maxTimeout)
}

func checkURL(field, raw string) error {
	if err := toolkit.NotBlank(field, raw); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http or https URL, got %q", field, raw)
	}

	return nil
}
