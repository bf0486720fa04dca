package checks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"github.com/mealmax/mealsmoke/suite"
)

// evaluateTests runs a check's tests in order against the response.
// It returns the index of the first failing test and the reason, or
// -1 and the empty string when every test passes.
func evaluateTests(result suite.CheckResult) (int, string) {
	for j, test := range result.Check.Tests {
		passed, reason := evaluateTest(test, result)
		if !passed {
			return j, reason
		}
	}
	return -1, ""
}

func evaluateTest(test suite.Test, result suite.CheckResult) (bool, string) {
	switch {
	case test.StatusCode != nil:
		if result.StatusCode != *test.StatusCode {
			return false, fmt.Sprintf("expected status code %d, got %d", *test.StatusCode, result.StatusCode)
		}
	case test.BodyContains != nil:
		interpolated := InterpolateVariables(*test.BodyContains, result.Variables)
		if !strings.Contains(result.BodyString, interpolated) {
			return false, fmt.Sprintf("response body does not contain %q", interpolated)
		}
	case test.BodyContainsNone != nil:
		interpolated := InterpolateVariables(*test.BodyContainsNone, result.Variables)
		if strings.Contains(result.BodyString, interpolated) {
			return false, fmt.Sprintf("response body contains forbidden string %q", interpolated)
		}
	case test.JSONValue != nil:
		return evaluateJSONValue(*test.JSONValue, result)
	}
	return true, ""
}

func evaluateJSONValue(jv suite.JSONValueTest, result suite.CheckResult) (bool, string) {
	path := InterpolateVariables(jv.Path, result.Variables)
	val, err := valFromJQPath(path, result.BodyString)
	if err != nil {
		return false, fmt.Sprintf("no value found at %s: %s", path, err.Error())
	}

	switch jv.Operator {
	case suite.OpEquals:
		switch {
		case jv.IntValue != nil:
			num, ok := toFloat(val)
			if !ok {
				return false, fmt.Sprintf("expected a number at %s, got %v", path, val)
			}
			if num != float64(*jv.IntValue) {
				return false, fmt.Sprintf("expected %s to equal %d, got %v", path, *jv.IntValue, val)
			}
		case jv.StringValue != nil:
			want := InterpolateVariables(*jv.StringValue, result.Variables)
			str, ok := val.(string)
			if !ok {
				return false, fmt.Sprintf("expected a string at %s, got %v", path, val)
			}
			if str != want {
				return false, fmt.Sprintf("expected %s to equal %q, got %q", path, want, str)
			}
		case jv.BoolValue != nil:
			b, ok := val.(bool)
			if !ok {
				return false, fmt.Sprintf("expected a boolean at %s, got %v", path, val)
			}
			if b != *jv.BoolValue {
				return false, fmt.Sprintf("expected %s to equal %v, got %v", path, *jv.BoolValue, b)
			}
		}
	case suite.OpGreaterThan:
		num, ok := toFloat(val)
		if !ok {
			return false, fmt.Sprintf("expected a number at %s, got %v", path, val)
		}
		if num <= float64(*jv.IntValue) {
			return false, fmt.Sprintf("expected %s to be greater than %d, got %v", path, *jv.IntValue, val)
		}
	case suite.OpContains:
		want := InterpolateVariables(*jv.StringValue, result.Variables)
		str, ok := val.(string)
		if !ok {
			return false, fmt.Sprintf("expected a string at %s, got %v", path, val)
		}
		if !strings.Contains(str, want) {
			return false, fmt.Sprintf("expected %s to contain %q, got %q", path, want, str)
		}
	case suite.OpNotContains:
		want := InterpolateVariables(*jv.StringValue, result.Variables)
		str, ok := val.(string)
		if !ok {
			return false, fmt.Sprintf("expected a string at %s, got %v", path, val)
		}
		if strings.Contains(str, want) {
			return false, fmt.Sprintf("expected %s to not contain %q, got %q", path, want, str)
		}
	}
	return true, ""
}

func toFloat(val any) (float64, bool) {
	switch num := val.(type) {
	case float64:
		return num, true
	case int:
		return float64(num), true
	}
	return 0, false
}

func valFromJQPath(path string, jsn string) (any, error) {
	vals, err := valsFromJQPath(path, jsn)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, errors.New("invalid number of values found")
	}
	val := vals[0]
	if val == nil {
		return nil, errors.New("value not found")
	}
	return val, nil
}

func valsFromJQPath(path string, jsn string) ([]any, error) {
	var parseable any
	err := json.Unmarshal([]byte(jsn), &parseable)
	if err != nil {
		return nil, err
	}

	query, err := gojq.Parse(path)
	if err != nil {
		return nil, err
	}
	iter := query.Run(parseable)
	vals := []any{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			if err, ok := err.(*gojq.HaltError); ok && err.Value() == nil {
				break
			}
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// PrettyPrintTest renders a one-line description of a test for the
// live view and for `mealsmoke list`.
func PrettyPrintTest(test suite.Test, variables map[string]string) string {
	if test.StatusCode != nil {
		return fmt.Sprintf("Expecting status code: %d", *test.StatusCode)
	}
	if test.BodyContains != nil {
		interpolated := InterpolateVariables(*test.BodyContains, variables)
		return fmt.Sprintf("Expecting body to contain: %s", interpolated)
	}
	if test.BodyContainsNone != nil {
		interpolated := InterpolateVariables(*test.BodyContainsNone, variables)
		return fmt.Sprintf("Expecting JSON body to not contain: %s", interpolated)
	}
	if test.JSONValue != nil {
		var val any
		var op any
		if test.JSONValue.IntValue != nil {
			val = *test.JSONValue.IntValue
		} else if test.JSONValue.StringValue != nil {
			val = *test.JSONValue.StringValue
		} else if test.JSONValue.BoolValue != nil {
			val = *test.JSONValue.BoolValue
		}
		if test.JSONValue.Operator == suite.OpEquals {
			op = "to be equal to"
		} else if test.JSONValue.Operator == suite.OpGreaterThan {
			op = "to be greater than"
		} else if test.JSONValue.Operator == suite.OpContains {
			op = "to contain"
		} else if test.JSONValue.Operator == suite.OpNotContains {
			op = "to not contain"
		}
		expecting := fmt.Sprintf("Expecting JSON at %v %s %v", test.JSONValue.Path, op, val)
		return InterpolateVariables(expecting, variables)
	}
	return ""
}
