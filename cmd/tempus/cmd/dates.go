package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/msto63/tempus/foundation/utils/timex"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/spf13/cobra"
)

var (
	inputPattern string
	outputJSON   bool
)

var formatCmd = &cobra.Command{
	Use:   "format <pattern> [date]",
	Short: "Render a date with a pattern",
	Long: `Render a date with a pattern. The date defaults to now and may be
text (parsed with --input or autodetected) or a Unix timestamp like @1382313600.

Examples:
  tempus format "%A, %d %B %Y"
  tempus format "%d.%m.%Y" @1382313600
  tempus format "%B %Y" 2013-10-21 --locale de_DE`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			var date string
			if len(args) > 1 {
				date = args[1]
			}
			text, err := a.calendar.Format(ctx, service.FormatRequest{
				Date:    dateArg(date, inputPattern),
				Pattern: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <text> [pattern]",
	Short: "Parse a date string",
	Long: `Parse a date string into its fields. Without a pattern the known
formats are tried in order.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			req := service.ParseRequest{Text: args[0]}
			if len(args) > 1 {
				req.Pattern = args[1]
			}
			result, err := a.calendar.Parse(ctx, req)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:      %s\n", result.Date)
			fmt.Fprintf(out, "Timestamp: %d\n", result.Timestamp)
			fmt.Fprintf(out, "Pattern:   %s\n", result.Pattern)
			if week, ok := result.Date.Week.Get(); ok {
				fmt.Fprintf(out, "Week:      %d\n", week)
			}
			return nil
		})
	},
}

var reformatCmd = &cobra.Command{
	Use:   "reformat <text> <to> [from]",
	Short: "Convert a date string between patterns",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			req := service.ReformatRequest{Text: args[0], To: args[1]}
			if len(args) > 2 {
				req.From = args[2]
			}
			text, err := a.calendar.Reformat(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <date>",
	Short: "Check that a date is a real calendar date",
	Long: `Check that a date is a real calendar date, i.e. that it survives
normalization unchanged. 31.02.2013 is invalid.

The command exits with an error when the date is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			valid, err := a.calendar.Validate(ctx, service.ValidateRequest{
				Date: dateArg(args[0], inputPattern),
			})
			if err != nil {
				return err
			}
			if !valid {
				return fmt.Errorf("%s is not a valid date", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		})
	},
}

var betweenCmd = &cobra.Command{
	Use:   "between <from> <to> [unit]",
	Short: "Count whole units between two dates",
	Long: `Count whole units between two dates. The unit defaults to days;
year, month, week, day, hours, minutes and seconds are accepted.

Examples:
  tempus between 2013-01-01 2013-10-21
  tempus between 2013-01-01 2013-10-21 month`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			unit := "day"
			if len(args) > 2 {
				unit = args[2]
			}
			n, err := a.calendar.Between(ctx, service.BetweenRequest{
				From: dateArg(args[0], inputPattern),
				To:   dateArg(args[1], inputPattern),
				Unit: unit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		})
	},
}

var shiftCmd = &cobra.Command{
	Use:   "shift <date> <amount> <unit>",
	Short: "Move a date by an amount of units",
	Long: `Move a date by an amount of units and print the normalized result.

Examples:
  tempus shift 2013-10-31 1 month
  tempus shift now -90 minutes --output "%H:%M"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			date, err := a.calendar.Shift(ctx, service.ShiftRequest{
				Date:   dateArg(args[0], inputPattern),
				Amount: amount,
				Unit:   args[2],
			})
			if err != nil {
				return err
			}
			return printDate(ctx, cmd, a, date)
		})
	},
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print the current date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			date, err := a.calendar.Now(ctx, service.View{})
			if err != nil {
				return err
			}
			return printDate(ctx, cmd, a, date)
		})
	},
}

var outputPattern string

// printDate writes a date as JSON, with --output, or in the key format
func printDate(ctx context.Context, cmd *cobra.Command, a *app, date timex.Date) error {
	if outputJSON {
		return printJSON(cmd, date)
	}
	pattern := outputPattern
	if pattern == "" {
		pattern = timex.DefaultKeyFormat
	}
	fields := date.DateFields()
	text, err := a.calendar.Format(ctx, service.FormatRequest{
		Date:    service.FieldsInput(fields),
		Pattern: pattern,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// withApp runs fn with a short lived app
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func init() {
	for _, c := range []*cobra.Command{formatCmd, validateCmd, betweenCmd, shiftCmd} {
		c.Flags().StringVarP(&inputPattern, "input", "i", "", "pattern for text dates (default: autodetect)")
	}
	parseCmd.Flags().BoolVar(&outputJSON, "json", false, "print the result as JSON")
	for _, c := range []*cobra.Command{shiftCmd, nowCmd} {
		c.Flags().StringVarP(&outputPattern, "output", "o", "", "output pattern (default: "+timex.DefaultKeyFormat+")")
		c.Flags().BoolVar(&outputJSON, "json", false, "print the date as JSON")
	}

	rootCmd.AddCommand(formatCmd, parseCmd, reformatCmd, validateCmd, betweenCmd, shiftCmd, nowCmd)
}
