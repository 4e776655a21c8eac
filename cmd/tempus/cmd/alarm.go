package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/alarm/store"
	"github.com/spf13/cobra"
)

var (
	alarmPattern string
	alarmPending bool
	alarmJSON    bool
)

var alarmCmd = &cobra.Command{
	Use:   "alarm",
	Short: "Manage alarms",
	Long: `Manage alarms stored in the alarm database (alarm.db_path).

Alarms are scheduled by "tempus serve", "tempus alarm run" and
"tempus clock --alarms". Alarms that came due while none of them was
running fire on start.`,
}

// alarmSession is an alarm service over an open store
type alarmSession struct {
	*app
	alarms *alarmsvc.Service
	close  func()
}

func openAlarmSession(cmd *cobra.Command, longRunning bool) (*alarmSession, error) {
	a, err := newApp(cmd, longRunning)
	if err != nil {
		return nil, err
	}
	timers := a.newTimers()
	alarms, db, err := a.openAlarms(timers)
	if err != nil {
		timers.Stop()
		a.Close()
		return nil, err
	}
	return &alarmSession{
		app:    a,
		alarms: alarms,
		close: func() {
			alarms.Stop()
			timers.Stop()
			db.Close()
			a.Close()
		},
	}, nil
}

var alarmAddCmd = &cobra.Command{
	Use:   "add <label> <date>",
	Short: "Add an alarm",
	Long: `Add an alarm. The date may be text (parsed with --input or
autodetected) or a Unix timestamp like @1382313600.

Examples:
  tempus alarm add "Standup" "2013-10-21 09:30"
  tempus alarm add "Review" "21.10.2013 14:00" --input "%d.%m.%Y %H:%M" --pattern "%H:%M"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAlarmSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.close()

		req := alarmsvc.AddRequest{
			Label:   args[0],
			At:      dateArg(args[1], inputPattern),
			Pattern: alarmPattern,
		}
		if cmd.Flags().Changed("locale") {
			req.Locale = localeFlag
		}
		alarm, err := s.alarms.Add(cmd.Context(), req)
		if err != nil {
			return err
		}
		if alarmJSON {
			return printJSON(cmd, alarm)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s\n", alarm.ID, alarm.Label, time.Unix(alarm.Target, 0).UTC().Format(time.RFC3339))
		return nil
	},
}

var alarmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List alarms",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAlarmSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.close()

		alarms, err := s.alarms.List(cmd.Context(), alarmPending)
		if err != nil {
			return err
		}
		if alarmJSON {
			return printJSON(cmd, alarms)
		}
		printAlarms(cmd, alarms)
		return nil
	},
}

func printAlarms(cmd *cobra.Command, alarms []*store.Alarm) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-36s  %-20s  %-20s  %s\n", "ID", "LABEL", "TARGET", "STATUS")
	for _, alarm := range alarms {
		status := "pending"
		if !alarm.Pending() {
			status = "fired"
		}
		fmt.Fprintf(out, "%-36s  %-20s  %-20s  %s\n", alarm.ID, alarm.Label,
			time.Unix(alarm.Target, 0).UTC().Format(time.RFC3339), status)
	}
}

var alarmRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an alarm",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAlarmSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.alarms.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var alarmRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule the stored alarms and print them when they fire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openAlarmSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		unsubscribe := s.alarms.Subscribe(func(e alarmsvc.Event) {
			fmt.Fprintf(out, "%s %s\n", e.Text, e.Alarm.Label)
		})
		defer unsubscribe()

		if err := s.alarms.Start(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Waiting for %d alarm(s), press Ctrl+C to stop\n", s.alarms.Scheduled())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	alarmAddCmd.Flags().StringVarP(&inputPattern, "input", "i", "", "pattern for the date (default: autodetect)")
	alarmAddCmd.Flags().StringVarP(&alarmPattern, "pattern", "p", "", "pattern of the notification text")
	alarmAddCmd.Flags().BoolVar(&alarmJSON, "json", false, "print the alarm as JSON")
	alarmListCmd.Flags().BoolVar(&alarmPending, "pending", false, "only pending alarms")
	alarmListCmd.Flags().BoolVar(&alarmJSON, "json", false, "print the alarms as JSON")

	alarmCmd.AddCommand(alarmAddCmd, alarmListCmd, alarmRemoveCmd, alarmRunCmd)
	rootCmd.AddCommand(alarmCmd)
}
