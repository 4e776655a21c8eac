package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	localeFlag string
	mondayFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "tempus",
	Short: "tempus - calendar engine",
	Long: `tempus formats, parses and validates dates with strftime-like patterns,
does calendar arithmetic, enumerates date ranges and runs clocks and alarms.

Patterns use %-tokens such as %Y (year), %m (month), %d (day),
%H:%M:%S (time), %B (month name) and %A (day name).

Examples:
  tempus format "%A, %d %B %Y"
  tempus parse "21.10.2013"
  tempus generate 2013-10-01 2013-10-31 --days 7 --format "%d %b"
  tempus calendar 2013 10 --monday
  tempus serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $TEMPUS_CONFIG or ./configs/tempus.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&localeFlag, "locale", "L", "", "locale for month and day names (e.g. de_DE)")
	rootCmd.PersistentFlags().BoolVar(&mondayFlag, "monday", false, "weeks start on Monday")
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
