package cmd

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// errSilent signals a failure whose message was already printed, so
// Execute only has to set the exit code.
var errSilent = errors.New("silent")

var rootCmd = &cobra.Command{
	Use:   "mealsmoke",
	Short: "Smoke tests for meal battle services",
	Long: `mealsmoke probes a running meal battle service end to end: health,
catalog writes, meal lookups, combatant prep, battles, and the
leaderboard. A run stops at the first failed check and exits non-zero.`,
	// Version should match the Git tag
	Version:       "v1.0.1",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mealsmoke.yaml)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		msg := err.Error()
		switch {
		case strings.HasPrefix(msg, "unknown shorthand flag"):
			fields := strings.Fields(msg)
			fmt.Printf("Unknown parameter passed: %s\n", fields[len(fields)-1])
		case strings.HasPrefix(msg, "unknown flag"):
			fmt.Printf("Unknown parameter passed: %s\n", strings.TrimPrefix(msg, "unknown flag: "))
		default:
			fmt.Println(msg)
		}
		return errSilent
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("base_url", "http://localhost:5001/api")
	viper.SetDefault("override_base_url", "")
	viper.SetDefault("timeout", "10s")
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		err := viper.ReadInConfig()
		cobra.CheckErr(err)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".mealsmoke" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mealsmoke")
		if err := viper.ReadInConfig(); err != nil {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.SafeWriteConfigAs(path.Join(home, ".mealsmoke.yaml"))
			viper.ReadInConfig()
			cobra.CheckErr(err)
		}
	}

	viper.SetEnvPrefix("mealsmoke")
	viper.AutomaticEnv() // read in environment variables that match
}
