package messages

import "github.com/mealmax/mealsmoke/suite"

type StartCheckMsg struct {
	Name     string
	Method   string
	URL      string
	Captures []suite.Capture
}

type StartTestMsg struct {
	Text string
}

type ResolveTestMsg struct {
	CheckIndex int
	TestIndex  int
	Passed     *bool
}

type ResolveCheckMsg struct {
	Index  int
	Passed *bool
	Result *suite.CheckResult
}

type DoneMsg struct {
	Failure *suite.Failure
}
