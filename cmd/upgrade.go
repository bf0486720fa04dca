package cmd

import (
	"fmt"
	"os/exec"
	"regexp"

	"github.com/mealmax/mealsmoke/version"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Aliases: []string{"update"},
	Short:   "Installs the latest version of the CLI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.FetchUpdateInfo(rootCmd.Version)
		if info.FailedToFetch != nil {
			return fmt.Errorf("could not check for updates: %w", info.FailedToFetch)
		}
		if !info.IsOutdated {
			fmt.Println("mealsmoke is already up to date.")
			return nil
		}

		// install the latest version
		command := exec.Command("go", "install", "github.com/mealmax/mealsmoke@latest")
		if _, err := command.Output(); err != nil {
			return fmt.Errorf("failed to install the latest version: %w", err)
		}

		// Get the new version info
		command = exec.Command("mealsmoke", "--version")
		b, err := command.Output()
		if err != nil {
			return fmt.Errorf("failed to read the installed version: %w", err)
		}
		re := regexp.MustCompile(`v\d+\.\d+\.\d+`)
		newVersion := re.FindString(string(b))
		fmt.Printf("Successfully upgraded to %s!\n", newVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}
