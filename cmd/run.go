package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mealmax/mealsmoke/checks"
	"github.com/mealmax/mealsmoke/render"
	"github.com/mealmax/mealsmoke/suite"
	"github.com/mealmax/mealsmoke/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var runBaseURL string
var runSuiteFile string
var runEchoJSON bool
var runPlain bool
var runTimeout time.Duration

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runBaseURL, "base-url", "b", "", "base URL of the target service, overriding any default")
	runCmd.Flags().StringVarP(&runSuiteFile, "suite-file", "f", "", "load the suite from a YAML file instead of a built-in")
	runCmd.Flags().BoolVar(&runEchoJSON, "echo-json", false, "print response bodies of read-style checks")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "plain line output instead of the live view")
	runCmd.Flags().DurationVarP(&runTimeout, "timeout", "t", 0, "per-request timeout, e.g. 5s (default from config)")
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [suite]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Run a smoke-test suite against a meal service",
	RunE:  runHandler,
}

func runHandler(cmd *cobra.Command, args []string) error {
	s, err := selectSuite(args)
	if err != nil {
		return err
	}

	baseURL := checks.ResolveBaseURL(runBaseURL, s)
	timeout := runTimeout
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}

	runner := checks.NewRunner(baseURL, timeout, rootCmd.Version)
	var failure *suite.Failure
	work := func(ch chan tea.Msg) {
		_, failure = runner.RunSuite(s, ch)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if runPlain || !isTTY {
		render.Plain(runEchoJSON, work)
	} else {
		render.Live(runEchoJSON, work)
	}

	if failure != nil {
		return errSilent
	}

	// Only nag about updates after a clean interactive run, so the
	// checks themselves stay the only network traffic that matters.
	if isTTY && !runPlain {
		info := version.FetchUpdateInfo(rootCmd.Version)
		info.PromptUpdateIfAvailable()
	}
	return nil
}

func selectSuite(args []string) (*suite.Suite, error) {
	if runSuiteFile != "" {
		return suite.Load(runSuiteFile)
	}
	name := "smoke"
	if len(args) > 0 {
		name = args[0]
	}
	s, ok := suite.Builtin(name)
	if !ok {
		return nil, fmt.Errorf("unknown suite %q (built-in suites: %s)", name, strings.Join(suite.BuiltinNames(), ", "))
	}
	return s, nil
}
