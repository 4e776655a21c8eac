package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/tempus/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	Version   = version.CLI
	GitCommit = "development"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tempus v%s\n", Version)
		for _, name := range version.Components() {
			fmt.Fprintf(out, "  %-11s %s\n", name+":", version.ServiceVersion(name))
		}
		fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
