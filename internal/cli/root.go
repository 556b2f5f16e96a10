package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "reviewtour",
	Short: "Turn commit history into review tours",
	Long: "Reviewtour slices a commit range into one tour per commit, traces every stop onto " +
		"the newest revision and merges tours that touch the same code so reviewers see each region once.",
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(tourCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print reviewtour version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "reviewtour version %s\n", version)
	},
}
