package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mealmax/mealsmoke/checks"
	"github.com/mealmax/mealsmoke/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show target and CLI version status",
	Long:  "Display whether the target service is reachable and whether the CLI is up to date",
	Run: func(cmd *cobra.Command, args []string) {
		checkTargetStatus()
		fmt.Println() // Blank line for readability
		checkVersionStatus()
	},
}

func checkTargetStatus() {
	target := checks.ResolveBaseURL("", nil)
	fmt.Printf("Target: %s\n", target)

	client := &http.Client{Timeout: viper.GetDuration("timeout")}
	resp, err := client.Get(strings.TrimSuffix(target, "/") + "/health")
	if err != nil {
		fmt.Println("Target unreachable")
		fmt.Printf("Error: %s\n", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Target unhealthy (status %d)\n", resp.StatusCode)
		return
	}

	fmt.Println("Target healthy")
}

func checkVersionStatus() {
	info := version.FetchUpdateInfo(rootCmd.Version)
	if info.FailedToFetch != nil {
		fmt.Println("Unable to check version status")
		fmt.Printf("Error: %s\n", info.FailedToFetch.Error())
		return
	}

	if info.IsOutdated {
		fmt.Printf("CLI outdated: %s → %s available\n", info.CurrentVersion, info.LatestVersion)
		fmt.Println("Run 'mealsmoke upgrade' to update")
	} else {
		fmt.Printf("CLI up to date (%s)\n", info.CurrentVersion)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
