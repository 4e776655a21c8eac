package cmd

import (
	"strings"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/core/i18n"
	"github.com/msto63/tempus/foundation/utils/timex"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/alarm/store"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/config"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
	"github.com/spf13/cobra"
)

// app holds the components shared by the commands
type app struct {
	config   *config.Config
	logger   *logging.Logger
	locales  *i18n.Manager
	calendar *service.Service
}

// loadConfig reads --config, or $TEMPUS_CONFIG and the default paths
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newApp builds the calendar service from the configuration. Long running
// commands log at the configured level, the others only warnings.
func newApp(cmd *cobra.Command, longRunning bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("locale") {
		cfg.Calendar.Locale = localeFlag
	}
	if cmd.Flags().Changed("monday") {
		cfg.Calendar.WeekStartsMonday = mondayFlag
	}

	logCfg := logging.FromConfig(cfg.General.Name, cfg.Log)
	logCfg.Output = cmd.ErrOrStderr()
	switch {
	case verbose:
		logCfg.Level = "debug"
	case !longRunning:
		logCfg.Level = "warn"
	}
	logger := logging.Wrap(logging.NewLogger(logCfg))

	format := i18n.FormatAuto
	switch strings.ToLower(cfg.Locales.Format) {
	case "toml":
		format = i18n.FormatTOML
	case "yaml":
		format = i18n.FormatYAML
	}
	locales, err := i18n.New(i18n.Options{
		LocalesDir: cfg.Locales.Dir,
		Format:     format,
		Watch:      cfg.Locales.Watch && longRunning,
		Logger:     logger.Logger,
	})
	if err != nil {
		return nil, err
	}

	locale := i18n.NormalizeLocale(cfg.Calendar.Locale)
	if strings.EqualFold(cfg.Calendar.Locale, config.AutoLocale) {
		locale = locales.DetectSystemLocale()
	}

	engine, err := timex.New(timex.Options{
		Locales:          locales,
		Locale:           locale,
		WeekStartsMonday: cfg.Calendar.WeekStartsMonday,
		DetectFormats:    cfg.Calendar.DetectFormats,
		Logger:           logger.Logger,
	})
	if err != nil {
		locales.Close()
		return nil, mdwerror.Wrap(err, "failed to create calendar engine").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("cmd.newApp").
			WithDetail("locale", cfg.Calendar.Locale)
	}

	calendar, err := service.NewService(service.Config{Engine: engine, Logger: logger})
	if err != nil {
		locales.Close()
		return nil, err
	}

	return &app{config: cfg, logger: logger, locales: locales, calendar: calendar}, nil
}

// newTimers creates the timer service with the configured tick
func (a *app) newTimers() *timer.Service {
	return timer.New(timer.Config{Tick: a.config.Alarm.Tick.Duration, Logger: a.logger.Logger})
}

// openAlarms opens the alarm database and creates the alarm service on
// timers. The caller closes the returned store.
func (a *app) openAlarms(timers *timer.Service) (*alarmsvc.Service, *store.Store, error) {
	db, err := store.Open(store.Config{Path: a.config.Alarm.DBPath})
	if err != nil {
		return nil, nil, err
	}
	alarms, err := alarmsvc.NewService(alarmsvc.Config{
		Store:    db,
		Timers:   timers,
		Calendar: a.calendar,
		Logger:   a.logger,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return alarms, db, nil
}

// Close releases the locale watcher
func (a *app) Close() {
	if err := a.locales.Close(); err != nil {
		a.logger.Warn("Failed to stop locale watcher", "error", err)
	}
}

// dateArg turns a command line date into an input: "now", a Unix timestamp
// prefixed with @, or text parsed with pattern (autodetected when empty)
func dateArg(arg, pattern string) service.DateInput {
	switch {
	case arg == "" || arg == "now":
		return service.DateInput{}
	case strings.HasPrefix(arg, "@"):
		var ts int64
		for _, r := range arg[1:] {
			if r < '0' || r > '9' {
				return service.TextInput(arg, pattern)
			}
			ts = ts*10 + int64(r-'0')
		}
		return service.At(ts)
	default:
		return service.TextInput(arg, pattern)
	}
}
