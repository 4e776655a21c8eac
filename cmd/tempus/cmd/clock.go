package cmd

import (
	"github.com/msto63/tempus/internal/tui/clock"
	"github.com/spf13/cobra"
)

var (
	clockTime   string
	clockDate   string
	clockAlarms bool
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Start the terminal clock",
	Long: `Start the terminal clock with a month calendar.

Keys:
  left/right  previous/next month
  t           back to today
  w           toggle the first day of the week
  L           next locale
  q           quit

With --alarms the stored alarms are scheduled and shown when they fire.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := clock.Config{
			Service:     a.calendar,
			TimePattern: clockTime,
			DatePattern: clockDate,
		}

		if clockAlarms {
			timers := a.newTimers()
			defer timers.Stop()
			alarms, db, err := a.openAlarms(timers)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := alarms.Start(cmd.Context()); err != nil {
				return err
			}
			defer alarms.Stop()
			cfg.Alarms = alarms
		}

		return clock.Run(cfg)
	},
}

func init() {
	clockCmd.Flags().StringVar(&clockTime, "time", clock.DefaultTimePattern, "pattern of the time line")
	clockCmd.Flags().StringVar(&clockDate, "date", clock.DefaultDatePattern, "pattern of the date line")
	clockCmd.Flags().BoolVarP(&clockAlarms, "alarms", "a", false, "schedule stored alarms")

	rootCmd.AddCommand(clockCmd)
}
