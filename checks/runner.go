package checks

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mealmax/mealsmoke/messages"
	"github.com/mealmax/mealsmoke/suite"
	"github.com/spf13/viper"
)

// ResolveBaseURL picks the target base URL for a run. A --base-url flag
// beats the persisted override, which beats the suite's own default,
// which beats the compiled-in default.
func ResolveBaseURL(flagBaseURL string, s *suite.Suite) string {
	if flagBaseURL != "" {
		return flagBaseURL
	}
	if override := viper.GetString("override_base_url"); override != "" {
		return override
	}
	if s != nil && s.BaseURL != "" {
		return s.BaseURL
	}
	return viper.GetString("base_url")
}

// RunSuite executes the suite's checks in order and stops at the first
// failure. Progress is streamed to ch as the run happens; a nil channel
// runs silently. The returned results cover only the checks that
// actually ran.
func (r *Runner) RunSuite(s *suite.Suite, ch chan tea.Msg) ([]suite.CheckResult, *suite.Failure) {
	variables := make(map[string]string)
	results := make([]suite.CheckResult, 0, len(s.Checks))

	for i, check := range s.Checks {
		send(ch, messages.StartCheckMsg{
			Name:     check.Name,
			Method:   check.Request.Method,
			URL:      r.checkURL(check.Request, variables),
			Captures: check.Captures,
		})

		result := r.runCheck(check, variables)
		results = append(results, result)

		failedTest := -1
		reason := result.Err
		fetchFailed := result.Err != ""
		if !fetchFailed {
			failedTest, reason = evaluateTests(result)
			if reason == "" {
				if err := parseVariables(result.BodyString, check.Captures, variables); err != nil {
					reason = err.Error()
				}
			}
		}

		for _, test := range check.Tests {
			send(ch, messages.StartTestMsg{Text: PrettyPrintTest(test, result.Variables)})
		}
		sendTestResults(ch, i, len(check.Tests), failedTest, fetchFailed)

		if reason != "" {
			failure := &suite.Failure{
				CheckIndex: i,
				CheckName:  check.Name,
				Reason:     reason,
			}
			send(ch, messages.ResolveCheckMsg{
				Index:  i,
				Passed: pointerToBool(false),
				Result: &result,
			})
			send(ch, messages.DoneMsg{Failure: failure})
			return results, failure
		}

		send(ch, messages.ResolveCheckMsg{
			Index:  i,
			Passed: pointerToBool(true),
			Result: &result,
		})
	}

	send(ch, messages.DoneMsg{})
	return results, nil
}

// sendTestResults resolves a check's tests for display. Tests before
// the failing one pass, the failing one fails, and anything after it
// stays unresolved. When the request itself failed no test resolves.
func sendTestResults(ch chan tea.Msg, checkIndex int, testCount int, failedTest int, fetchFailed bool) {
	for j := 0; j < testCount; j++ {
		msg := messages.ResolveTestMsg{
			CheckIndex: checkIndex,
			TestIndex:  j,
		}
		switch {
		case fetchFailed:
		case failedTest == -1 || j < failedTest:
			msg.Passed = pointerToBool(true)
		case j == failedTest:
			msg.Passed = pointerToBool(false)
		}
		send(ch, msg)
	}
}

func send(ch chan tea.Msg, msg tea.Msg) {
	if ch != nil {
		ch <- msg
	}
}

func pointerToBool(a bool) *bool {
	return &a
}
