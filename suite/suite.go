// Package suite defines the smoke-test data model: ordered checks, each
// issuing one HTTP request against a meal service and asserting on the
// response. Suites are either built in or loaded from YAML files.
package suite

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Suite struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Checks      []Check `yaml:"checks"`
}

type Check struct {
	Name     string    `yaml:"name"`
	Request  Request   `yaml:"request"`
	Tests    []Test    `yaml:"tests"`
	Captures []Capture `yaml:"captures,omitempty"`
	// EchoJSON marks read-style checks whose response body is printed
	// after the run when --echo-json is set.
	EchoJSON bool `yaml:"echo_json,omitempty"`
}

type Request struct {
	Method   string            `yaml:"method"`
	Path     string            `yaml:"path"`
	Query    map[string]string `yaml:"query,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	BodyJSON map[string]any    `yaml:"body_json,omitempty"`
}

// Capture saves a value from the response body under a name that later
// checks can reference as ${name} in paths, bodies, and tests.
type Capture struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Only one of these fields should be set
type Test struct {
	StatusCode       *int           `yaml:"status_code,omitempty"`
	BodyContains     *string        `yaml:"body_contains,omitempty"`
	BodyContainsNone *string        `yaml:"body_contains_none,omitempty"`
	JSONValue        *JSONValueTest `yaml:"json_value,omitempty"`
}

type JSONValueTest struct {
	Path        string       `yaml:"path"`
	Operator    OperatorType `yaml:"operator"`
	IntValue    *int         `yaml:"int_value,omitempty"`
	StringValue *string      `yaml:"string_value,omitempty"`
	BoolValue   *bool        `yaml:"bool_value,omitempty"`
}

type OperatorType string

const (
	OpEquals      OperatorType = "eq"
	OpGreaterThan OperatorType = "gt"
	OpContains    OperatorType = "contains"
	OpNotContains OperatorType = "not_contains"
)

// CheckResult holds everything observed while running a single check.
// Err is set only when the request itself could not complete.
type CheckResult struct {
	Err        string
	StatusCode int
	BodyString string
	FinalURL   string
	Variables  map[string]string
	Check      Check
}

// Failure identifies the first check that failed and why. A run stops
// at the first failure, so at most one exists per run.
type Failure struct {
	CheckIndex int
	CheckName  string
	Reason     string
}

func (s *Suite) Validate() error {
	if s.Name == "" {
		return errors.New("suite name is required")
	}
	if len(s.Checks) == 0 {
		return errors.New("suite has no checks")
	}
	for i, check := range s.Checks {
		if err := check.validate(); err != nil {
			return fmt.Errorf("check %d (%s): %w", i+1, check.Name, err)
		}
	}
	return nil
}

func (c *Check) validate() error {
	if c.Name == "" {
		return errors.New("check name is required")
	}
	switch c.Request.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", c.Request.Method)
	}
	if !strings.HasPrefix(c.Request.Path, "/") {
		return fmt.Errorf("path %q must start with a slash", c.Request.Path)
	}
	if len(c.Tests) == 0 {
		return errors.New("check has no tests")
	}
	for j, test := range c.Tests {
		if err := test.validate(); err != nil {
			return fmt.Errorf("test %d: %w", j+1, err)
		}
	}
	for j, capture := range c.Captures {
		if capture.Name == "" || capture.Path == "" {
			return fmt.Errorf("capture %d: name and path are required", j+1)
		}
	}
	return nil
}

func (t *Test) validate() error {
	set := 0
	if t.StatusCode != nil {
		set++
	}
	if t.BodyContains != nil {
		set++
	}
	if t.BodyContainsNone != nil {
		set++
	}
	if t.JSONValue != nil {
		set++
	}
	if set != 1 {
		return errors.New("exactly one assertion field must be set")
	}
	if t.JSONValue == nil {
		return nil
	}

	jv := t.JSONValue
	if jv.Path == "" {
		return errors.New("json_value path is required")
	}
	vals := 0
	if jv.IntValue != nil {
		vals++
	}
	if jv.StringValue != nil {
		vals++
	}
	if jv.BoolValue != nil {
		vals++
	}
	if vals != 1 {
		return errors.New("json_value needs exactly one of int_value, string_value, bool_value")
	}
	switch jv.Operator {
	case OpEquals:
	case OpGreaterThan:
		if jv.IntValue == nil {
			return errors.New("operator gt requires int_value")
		}
	case OpContains, OpNotContains:
		if jv.StringValue == nil {
			return fmt.Errorf("operator %s requires string_value", jv.Operator)
		}
	default:
		return fmt.Errorf("unknown operator %q", jv.Operator)
	}
	return nil
}
