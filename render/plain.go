package render

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mealmax/mealsmoke/messages"
)

// Plain renders a run without the interactive TUI: one line per check
// and test, suitable for CI logs and piped output. It consumes the same
// message stream the live view does.
func Plain(echoJSON bool, run func(ch chan tea.Msg)) {
	initStyles()
	ch := make(chan tea.Msg, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ch)
	}()

	var tests []string
	for {
		switch msg := (<-ch).(type) {
		case messages.StartCheckMsg:
			tests = tests[:0]
			fmt.Printf("%s: %s %s\n", msg.Name, msg.Method, msg.URL)
			for _, capture := range msg.Captures {
				fmt.Println(gray.Render(fmt.Sprintf("  *  Saving `%s` from `%s`", capture.Name, capture.Path)))
			}

		case messages.StartTestMsg:
			tests = append(tests, msg.Text)

		case messages.ResolveTestMsg:
			fmt.Println("  " + renderTest(tests[msg.TestIndex], "", true, msg.Passed))

		case messages.ResolveCheckMsg:
			if msg.Result == nil {
				continue
			}
			echo := echoJSON && msg.Result.Check.EchoJSON
			failed := msg.Passed != nil && !*msg.Passed
			if echo || failed {
				fmt.Print(printCheckResult(*msg.Result))
			}

		case messages.DoneMsg:
			fmt.Println()
			if msg.Failure != nil {
				fmt.Println(red.Render("Smoke test failed! ❌"))
				fmt.Println(red.Render(fmt.Sprintf("Failed check: %s", msg.Failure.CheckName)))
				fmt.Println(red.Render("Reason: " + msg.Failure.Reason))
			} else {
				fmt.Println(green.Render("All tests passed successfully!"))
			}
			<-done
			return
		}
	}
}
