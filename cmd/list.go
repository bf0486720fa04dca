package cmd

import (
	"fmt"

	"github.com/mealmax/mealsmoke/checks"
	"github.com/mealmax/mealsmoke/suite"
	"github.com/spf13/cobra"
)

var listSuiteFile string

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSuiteFile, "suite-file", "f", "", "describe a YAML suite instead of a built-in")
}

// listCmd prints what a suite would do. It never sends a request.
var listCmd = &cobra.Command{
	Use:   "list [suite]",
	Short: "Describe a suite's checks without running them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listSuiteFile == "" && len(args) == 0 {
			for _, name := range suite.BuiltinNames() {
				s, _ := suite.Builtin(name)
				fmt.Printf("%s - %s (%d checks)\n", s.Name, s.Description, len(s.Checks))
			}
			return nil
		}

		var s *suite.Suite
		if listSuiteFile != "" {
			loaded, err := suite.Load(listSuiteFile)
			if err != nil {
				return err
			}
			s = loaded
		} else {
			builtin, ok := suite.Builtin(args[0])
			if !ok {
				return fmt.Errorf("unknown suite %q", args[0])
			}
			s = builtin
		}

		fmt.Printf("%s: %s\n", s.Name, s.Description)
		for i, check := range s.Checks {
			fmt.Printf("%3d. %s: %s %s\n", i+1, check.Name, check.Request.Method, check.Request.Path)
			for _, test := range check.Tests {
				fmt.Printf("       - %s\n", checks.PrettyPrintTest(test, nil))
			}
			for _, capture := range check.Captures {
				fmt.Printf("       - Saving `%s` from `%s`\n", capture.Name, capture.Path)
			}
		}
		return nil
	},
}
