package render

import (
	"strings"
	"testing"

	"github.com/mealmax/mealsmoke/suite"
)

func passedPtr(v bool) *bool { return &v }

func TestRenderTest(t *testing.T) {
	initStyles()

	got := renderTest("Expecting status code: 200", "*", false, nil)
	if got != "* Expecting status code: 200" {
		t.Errorf("Expected the spinner beside an unfinished test, got %q", got)
	}

	got = renderTest("Expecting status code: 200", "", true, nil)
	if got != "?  Expecting status code: 200" {
		t.Errorf("Expected an unresolved test to render ?, got %q", got)
	}

	got = renderTest("Expecting status code: 200", "", true, passedPtr(true))
	if got != "✓  Expecting status code: 200" {
		t.Errorf("Expected a passed test to render ✓, got %q", got)
	}

	got = renderTest("Expecting status code: 200", "", true, passedPtr(false))
	if got != "X  Expecting status code: 200" {
		t.Errorf("Expected a failed test to render X, got %q", got)
	}
}

func TestRenderCaptures(t *testing.T) {
	initStyles()

	got := renderCaptures([]suite.Capture{{Name: "meal_id", Path: "meal.id"}})
	if !strings.Contains(got, "Saving `meal_id` from `meal.id`") {
		t.Errorf("Expected the capture line, got %q", got)
	}
	if !strings.HasPrefix(got, " ├─") {
		t.Errorf("Expected the tree edge, got %q", got)
	}
}

func TestRenderCheckHeader(t *testing.T) {
	initStyles()
	m := initModel(false)

	got := renderCheckHeader("health: GET http://localhost:5001/api/health", m.spinner, true, passedPtr(true))
	if !strings.Contains(got, "health: GET http://localhost:5001/api/health") {
		t.Errorf("Expected the header text, got %q", got)
	}
	if !strings.Contains(got, "┬") {
		t.Errorf("Expected the bottom border to splice a tee, got %q", got)
	}
}

func TestPrintCheckResult_Err(t *testing.T) {
	got := printCheckResult(suite.CheckResult{Err: "Failed to fetch: connection refused"})
	if got != "  Err: Failed to fetch: connection refused\n\n" {
		t.Errorf("Expected the error line, got %q", got)
	}
}

func TestPrintCheckResult_PrettyJSON(t *testing.T) {
	got := printCheckResult(suite.CheckResult{
		StatusCode: 200,
		BodyString: `{"status":"success","meal":{"id":1}}`,
	})
	if !strings.Contains(got, "  Response Status Code: 200\n") {
		t.Errorf("Expected the status line, got %q", got)
	}
	if !strings.Contains(got, "\"status\": \"success\"") {
		t.Errorf("Expected indented JSON, got %q", got)
	}
}

func TestPrintCheckResult_Variables(t *testing.T) {
	got := printCheckResult(suite.CheckResult{
		StatusCode: 200,
		BodyString: `{}`,
		Variables:  map[string]string{"meal_id": "4", "missing": ""},
	})
	if !strings.Contains(got, "   - meal_id: 4\n") {
		t.Errorf("Expected the variable line, got %q", got)
	}
	if !strings.Contains(got, "   - missing: [not found]\n") {
		t.Errorf("Expected the not-found line, got %q", got)
	}
}

func TestPrintCheckResult_Binary(t *testing.T) {
	got := printCheckResult(suite.CheckResult{
		StatusCode: 200,
		BodyString: "\x89PNG\r\n\x1a\n000",
	})
	if !strings.Contains(got, "Binary image/png file") {
		t.Errorf("Expected a binary notice, got %q", got)
	}
}

func TestView_FailureBanner(t *testing.T) {
	m := initModel(false)
	m.finalized = true
	m.failure = &suite.Failure{CheckIndex: 0, CheckName: "health", Reason: "expected status code 200, got 500"}
	m.checks = []checkModel{{
		header:   "health: GET http://localhost:5001/api/health",
		finished: true,
		passed:   passedPtr(false),
		result: &suite.CheckResult{
			StatusCode: 500,
			BodyString: `{"error":"boom"}`,
			Check:      suite.Check{Name: "health"},
		},
		tests: []testModel{{text: "Expecting status code: 200", finished: true, passed: passedPtr(false)}},
	}}

	got := m.View()
	if !strings.Contains(got, "Smoke test failed! ❌") {
		t.Errorf("Expected the failure banner, got %q", got)
	}
	if !strings.Contains(got, "Failed check: health") {
		t.Errorf("Expected the failed check name, got %q", got)
	}
	if !strings.Contains(got, "Reason: expected status code 200, got 500") {
		t.Errorf("Expected the reason, got %q", got)
	}
	if !strings.Contains(got, "Response Status Code: 500") {
		t.Errorf("Expected the failing response to print, got %q", got)
	}
}

func TestView_SuccessBanner(t *testing.T) {
	m := initModel(false)
	m.finalized = true
	m.success = true
	m.checks = []checkModel{{
		header:   "health: GET http://localhost:5001/api/health",
		finished: true,
		passed:   passedPtr(true),
		result: &suite.CheckResult{
			StatusCode: 200,
			BodyString: `{"status":"healthy"}`,
			Check:      suite.Check{Name: "health"},
		},
		tests: []testModel{{text: "Expecting status code: 200", finished: true, passed: passedPtr(true)}},
	}}

	got := m.View()
	if !strings.Contains(got, "All tests passed successfully!") {
		t.Errorf("Expected the success banner, got %q", got)
	}
	if strings.Contains(got, "Response Body:") {
		t.Errorf("Expected no body echo without --echo-json, got %q", got)
	}
}

func TestView_EchoJSONGating(t *testing.T) {
	result := &suite.CheckResult{
		StatusCode: 200,
		BodyString: `{"status":"healthy"}`,
		Check:      suite.Check{Name: "health", EchoJSON: true},
	}
	check := checkModel{
		header:   "health: GET http://localhost:5001/api/health",
		finished: true,
		passed:   passedPtr(true),
		result:   result,
	}

	m := initModel(true)
	m.finalized = true
	m.success = true
	m.checks = []checkModel{check}
	if got := m.View(); !strings.Contains(got, "Response Body:") {
		t.Errorf("Expected the body to echo, got %q", got)
	}

	m = initModel(false)
	m.finalized = true
	m.success = true
	m.checks = []checkModel{check}
	if got := m.View(); strings.Contains(got, "Response Body:") {
		t.Errorf("Expected no echo when the flag is off, got %q", got)
	}
}

func TestView_ClearedFrameIsEmpty(t *testing.T) {
	m := initModel(false)
	m.clear = true
	if got := m.View(); got != "" {
		t.Errorf("Expected an empty frame after quit, got %q", got)
	}
}
