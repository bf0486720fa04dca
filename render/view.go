package render

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mealmax/mealsmoke/suite"
)

func renderCheckHeader(header string, spinner spinner.Model, isFinished bool, passed *bool) string {
	headerStr := renderTest(header, spinner.View(), isFinished, passed)
	box := borderBox.Render(fmt.Sprintf(" %s ", headerStr))
	sliced := strings.Split(box, "\n")
	sliced[2] = strings.Replace(sliced[2], "─", "┬", 1)
	return strings.Join(sliced, "\n") + "\n"
}

func renderCaptures(captures []suite.Capture) string {
	var str strings.Builder
	var edges strings.Builder

	for _, capture := range captures {
		varStr := gray.Render(fmt.Sprintf("  *  Saving `%s` from `%s`", capture.Name, capture.Path))
		height := lipgloss.Height(varStr)

		edges.Reset()
		edges.WriteString(" ├─")
		for i := 1; i < height; i++ {
			edges.WriteString("\n │ ")
		}

		str.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, edges.String(), varStr))
		str.WriteByte('\n')
	}

	return str.String()
}

func renderTests(tests []testModel, spinner string) string {
	var str strings.Builder
	var edges strings.Builder

	for _, test := range tests {
		testStr := renderTest(test.text, spinner, test.finished, test.passed)
		testStr = fmt.Sprintf("  %s", testStr)
		height := lipgloss.Height(testStr)

		edges.Reset()
		edges.WriteString(" ├─")
		for i := 1; i < height; i++ {
			edges.WriteString("\n │ ")
		}

		str.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, edges.String(), testStr))
		str.WriteByte('\n')
	}

	return str.String()
}

func renderTest(text string, spinner string, isFinished bool, passed *bool) string {
	testStr := ""
	if !isFinished {
		testStr += fmt.Sprintf("%s %s", spinner, text)
	} else if passed == nil {
		testStr += gray.Render(fmt.Sprintf("?  %s", text))
	} else if *passed {
		testStr += green.Render(fmt.Sprintf("✓  %s", text))
	} else {
		testStr += red.Render(fmt.Sprintf("X  %s", text))
	}
	return testStr
}

func (m rootModel) View() string {
	if m.clear {
		return ""
	}
	s := m.spinner.View()
	var str strings.Builder
	for _, check := range m.checks {
		str.WriteString(renderCheckHeader(check.header, m.spinner, check.finished, check.passed))
		str.WriteString(renderTests(check.tests, s))
		str.WriteString(renderCaptures(check.captures))

		if check.result == nil || !m.finalized {
			continue
		}

		echo := m.echoJSON && check.result.Check.EchoJSON
		failed := check.passed != nil && !*check.passed
		if echo || failed {
			str.WriteString(printCheckResult(*check.result))
		}
	}
	if m.failure != nil {
		str.WriteString("\n\n" + red.Render("Smoke test failed! ❌"))
		str.WriteString(red.Render(fmt.Sprintf("\n\nFailed check: %s", m.failure.CheckName)))
		str.WriteString(red.Render("\nReason: "+m.failure.Reason) + "\n\n")
	} else if m.success {
		str.WriteString("\n\n" + green.Render("All tests passed successfully!") + "\n\n")
	}
	return str.String()
}

func printCheckResult(result suite.CheckResult) string {
	if result.Err != "" {
		return fmt.Sprintf("  Err: %v\n\n", result.Err)
	}

	str := ""

	str += fmt.Sprintf("  Response Status Code: %v\n", result.StatusCode)

	str += "  Response Body: \n"
	bytes := []byte(result.BodyString)
	contentType := http.DetectContentType(bytes)
	if contentType == "application/json" || strings.HasPrefix(contentType, "text/") {
		var unmarshalled interface{}
		err := json.Unmarshal([]byte(result.BodyString), &unmarshalled)
		if err == nil {
			pretty, err := json.MarshalIndent(unmarshalled, "", "  ")
			if err == nil {
				str += string(pretty)
			} else {
				str += result.BodyString
			}
		} else {
			str += result.BodyString
		}
	} else {
		str += fmt.Sprintf("Binary %s file", contentType)
	}
	str += "\n"

	if len(result.Variables) > 0 {
		str += "  Variables available: \n"
		for k, v := range result.Variables {
			if v != "" {
				str += fmt.Sprintf("   - %v: %v\n", k, v)
			} else {
				str += fmt.Sprintf("   - %v: [not found]\n", k)
			}
		}
	}
	str += "\n"

	return str
}
