package render

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mealmax/mealsmoke/suite"
)

type testModel struct {
	text     string
	passed   *bool
	finished bool
}

type checkModel struct {
	header   string
	captures []suite.Capture
	passed   *bool
	result   *suite.CheckResult
	finished bool
	tests    []testModel
}

type rootModel struct {
	checks    []checkModel
	spinner   spinner.Model
	failure   *suite.Failure
	echoJSON  bool
	success   bool
	finalized bool
	clear     bool
}

func initModel(echoJSON bool) rootModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return rootModel{
		spinner:  s,
		echoJSON: echoJSON,
		checks:   []checkModel{},
	}
}
