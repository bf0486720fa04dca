package cmd

import (
	"fmt"

	"github.com/mealmax/mealsmoke/checks"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the target service in your browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := checks.ResolveBaseURL("", nil)
		fmt.Printf("Opening %s in your browser...\n", target)
		browser.Stdout = nil
		browser.Stderr = nil
		return browser.OpenURL(target)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
