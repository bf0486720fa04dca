package render

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mealmax/mealsmoke/messages"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
)

var green lipgloss.Style
var red lipgloss.Style
var gray lipgloss.Style
var borderBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())

func initStyles() {
	green = lipgloss.NewStyle().Foreground(lipgloss.Color(viper.GetString("color.green")))
	red = lipgloss.NewStyle().Foreground(lipgloss.Color(viper.GetString("color.red")))
	gray = lipgloss.NewStyle().Foreground(lipgloss.Color(viper.GetString("color.gray")))
}

func (m rootModel) Init() tea.Cmd {
	initStyles()
	return m.spinner.Tick
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DoneMsg:
		m.failure = msg.Failure
		if m.failure == nil {
			m.success = true
		}
		m.clear = true
		return m, tea.Quit

	case messages.StartCheckMsg:
		m.checks = append(m.checks, checkModel{
			header:   fmt.Sprintf("%s: %s %s", msg.Name, msg.Method, msg.URL),
			tests:    []testModel{},
			captures: msg.Captures,
		})
		return m, nil

	case messages.ResolveCheckMsg:
		m.checks[msg.Index].passed = msg.Passed
		m.checks[msg.Index].finished = true
		m.checks[msg.Index].result = msg.Result
		return m, nil

	case messages.StartTestMsg:
		last := len(m.checks) - 1
		m.checks[last].tests = append(
			m.checks[last].tests,
			testModel{text: msg.Text},
		)
		return m, nil

	case messages.ResolveTestMsg:
		m.checks[msg.CheckIndex].tests[msg.TestIndex].passed = msg.Passed
		m.checks[msg.CheckIndex].tests[msg.TestIndex].finished = true
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

// Live streams a run through a bubbletea program, then reprints the
// final frame after the program exits so the transcript survives in
// the terminal scrollback.
func Live(echoJSON bool, run func(ch chan tea.Msg)) {
	var wg sync.WaitGroup
	ch := make(chan tea.Msg, 1)
	p := tea.NewProgram(initModel(echoJSON), tea.WithoutSignalHandler())
	wg.Add(1)
	go func() {
		defer wg.Done()
		if model, err := p.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else if r, ok := model.(rootModel); ok {
			r.clear = false
			r.finalized = true
			output := termenv.NewOutput(os.Stdout)
			output.WriteString(r.View())
		}
	}()
	go func() {
		for {
			msg := <-ch
			p.Send(msg)
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		run(ch)
	}()
	wg.Wait()
}
