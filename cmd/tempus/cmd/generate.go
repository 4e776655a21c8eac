package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/msto63/tempus/foundation/utils/timex"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/spf13/cobra"
)

var (
	genPeriod   timex.Period
	genFormat   string
	genGroupBy  string
	genAsObject bool
	genLimit    int
	genJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <from> <to>",
	Short: "Enumerate the dates of a range",
	Long: `Enumerate the dates from <from> to <to>, both included, stepping by
the period flags. Without period flags the step is one day.

Examples:
  tempus generate 2013-10-01 2013-10-31 --days 7 --format "%d %b"
  tempus generate 2013-01-01 2013-12-31 --months 1 --format "%B" --as-object
  tempus generate 2013-10-01 2013-10-31 --group-by week --format "%d"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		period := genPeriod
		if period == (timex.Period{}) {
			period = timex.Period{Days: 1}
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			result, err := a.calendar.Generate(ctx, service.GenerateRequest{
				From:     dateArg(args[0], inputPattern),
				To:       dateArg(args[1], inputPattern),
				Period:   period,
				Format:   genFormat,
				AsObject: genAsObject,
				GroupBy:  genGroupBy,
				Limit:    genLimit,
			})
			if err != nil {
				return err
			}
			if genJSON {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if len(result.Groups) == 0 {
				fmt.Fprintln(out, strings.Join(bucketLines(&result.Bucket), "\n"))
				return nil
			}
			for _, group := range result.Groups {
				fmt.Fprintf(out, "%s %d: %s\n", genGroupBy, group.Value, strings.Join(bucketLines(&group.Bucket), ", "))
			}
			return nil
		})
	},
}

// bucketLines returns the elements of a bucket as text
func bucketLines(b *timex.Bucket) []string {
	switch {
	case b.Ordered != nil:
		return b.Ordered
	case b.Strings != nil:
		return b.Strings
	}
	lines := make([]string, len(b.Dates))
	for i, d := range b.Dates {
		lines[i] = d.String()
	}
	return lines
}

func init() {
	flags := generateCmd.Flags()
	flags.IntVar(&genPeriod.Years, "years", 0, "step in years")
	flags.IntVar(&genPeriod.Months, "months", 0, "step in months")
	flags.IntVar(&genPeriod.Days, "days", 0, "step in days")
	flags.IntVar(&genPeriod.Hours, "hours", 0, "step in hours")
	flags.IntVar(&genPeriod.Minutes, "minutes", 0, "step in minutes")
	flags.IntVar(&genPeriod.Seconds, "seconds", 0, "step in seconds")
	flags.StringVarP(&genFormat, "format", "f", "", "render each date with this pattern")
	flags.StringVarP(&genGroupBy, "group-by", "g", "", "group by week, dayOfWeek, year, month, day, hours, minutes or seconds")
	flags.BoolVar(&genAsObject, "as-object", false, "collapse rendered dates into distinct keys")
	flags.IntVar(&genLimit, "limit", 0, "maximum number of elements (default: service limit)")
	flags.BoolVar(&genJSON, "json", false, "print the result as JSON")
	flags.StringVarP(&inputPattern, "input", "i", "", "pattern for text dates (default: autodetect)")

	rootCmd.AddCommand(generateCmd)
}
