package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msto63/tempus/foundation/utils/stringx"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/spf13/cobra"
)

var calendarJSON bool

var calendarCmd = &cobra.Command{
	Use:   "calendar [year] [month]",
	Short: "Print a month calendar with week numbers",
	Long: `Print a month calendar with week numbers. Without arguments the
current month is shown.

Examples:
  tempus calendar
  tempus calendar 2013 10 --monday --locale de_DE`,
	Aliases: []string{"cal"},
	Args:    cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			today, err := a.calendar.Now(ctx, service.View{})
			if err != nil {
				return err
			}
			req := service.MonthRequest{Year: today.Year, Month: today.Month}
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid number %q", arg)
				}
				if i == 0 {
					req.Year = n
				} else {
					req.Month = n
				}
			}

			month, err := a.calendar.Month(ctx, req)
			if err != nil {
				return err
			}
			if calendarJSON {
				return printJSON(cmd, month)
			}
			printMonth(cmd.OutOrStdout(), month)
			return nil
		})
	},
}

// gridWidth is the width of a month row: week number plus seven days
const gridWidth = 8*3 - 1

// printMonth writes a month as a text grid with the week number first
func printMonth(w io.Writer, month *service.MonthView) {
	title := fmt.Sprintf("%s %d", month.MonthName, month.Year)
	fmt.Fprintln(w, strings.TrimRight(stringx.Center(title, gridWidth, ' '), " "))

	header := []string{"Wk"}
	for _, name := range month.DayNames {
		header = append(header, stringx.PadLeft(stringx.Truncate(name, 2), 2, ' '))
	}
	fmt.Fprintln(w, strings.Join(header, " "))

	for _, week := range month.Weeks {
		cells := []string{fmt.Sprintf("%2d", week.Number)}
		for _, day := range week.Days {
			if day == 0 {
				cells = append(cells, "  ")
				continue
			}
			cells = append(cells, fmt.Sprintf("%2d", day))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "List the available locales",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			locales := a.calendar.Locales(ctx)
			if calendarJSON {
				return printJSON(cmd, locales)
			}
			out := cmd.OutOrStdout()
			for _, info := range locales {
				marker := " "
				if info.Default {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-8s %s\n", marker, info.ID, info.DisplayName)
			}
			return nil
		})
	},
}

func init() {
	calendarCmd.Flags().BoolVar(&calendarJSON, "json", false, "print the month as JSON")
	localesCmd.Flags().BoolVar(&calendarJSON, "json", false, "print the locales as JSON")

	rootCmd.AddCommand(calendarCmd, localesCmd)
}
