package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/gateway"
	chronosServer "github.com/msto63/tempus/internal/chronos/server"
	coregrpc "github.com/msto63/tempus/pkg/core/grpc"
	"github.com/msto63/tempus/pkg/core/health"
	"github.com/msto63/tempus/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	serveNoGRPC   bool
	serveNoHTTP   bool
	serveNoAlarms bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calendar services",
	Long: `Start the calendar services.

Services:
  grpc     - Calendar API (gRPC, grpc.port, default :9400)
  http     - REST API and WebSocket clock (http.port, default :9401)
  alarms   - Alarm scheduler (alarm.db_path)

Examples:
  tempus serve
  tempus serve --no-http
  tempus serve --config configs/tempus.toml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoGRPC, "no-grpc", false, "do not start the gRPC server")
	serveCmd.Flags().BoolVar(&serveNoHTTP, "no-http", false, "do not start the HTTP gateway")
	serveCmd.Flags().BoolVar(&serveNoAlarms, "no-alarms", false, "do not schedule alarms")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveNoGRPC && serveNoHTTP {
		return fmt.Errorf("nothing to serve: both gRPC and HTTP are disabled")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	timers := a.newTimers()
	defer timers.Stop()

	registry := health.NewRegistry("tempus", version.Platform)
	registry.Register(health.ThresholdCheck("timers", timers.Len, 10000))

	var alarms *alarmsvc.Service
	if !serveNoAlarms {
		svc, db, err := a.openAlarms(timers)
		if err != nil {
			return err
		}
		defer db.Close()
		alarms = svc
		if err := alarms.Start(ctx); err != nil {
			return err
		}
		defer alarms.Stop()
		alarms.RegisterHealth(registry)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tempus v%s (engine %s)\n", version.Platform, version.Engine)

	errCh := make(chan error, 2)

	var grpcServer *coregrpc.Server
	if !serveNoGRPC {
		grpcServer = coregrpc.NewServer(coregrpc.ServerConfigFrom(a.config.GRPC), logger)
		chronosServer.RegisterCalendarServer(grpcServer.GRPCServer(), chronosServer.New(chronosServer.Config{
			Service: a.calendar,
			Timers:  timers,
			Health:  registry,
			Logger:  logger,
		}))
		if err := grpcServer.StartAsync(); err != nil {
			return err
		}
		registry.Register(health.TCPCheck("grpc", grpcServer.Address()))
		fmt.Fprintf(out, "  [+] gRPC      %s\n", grpcServer.Address())
	}

	var httpServer *gateway.Server
	if !serveNoHTTP {
		gwCfg := gateway.ConfigFrom(a.config.HTTP)
		gwCfg.Version = version.Chronos
		gwCfg.Service = a.calendar
		gwCfg.Alarms = alarms
		gwCfg.Timers = timers
		gwCfg.Health = registry
		gwCfg.Logger = logger

		httpServer, err = gateway.New(gwCfg)
		if err != nil {
			return err
		}
		if err := httpServer.Listen(); err != nil {
			return err
		}
		go func() {
			if err := httpServer.Start(); err != nil {
				errCh <- fmt.Errorf("http: %w", err)
			}
		}()
		fmt.Fprintf(out, "  [+] HTTP      http://%s/api/v1\n", httpServer.Address())
		fmt.Fprintf(out, "  [+] WebSocket ws://%s/ws/clock\n", httpServer.Address())
	}
	if alarms != nil {
		fmt.Fprintf(out, "  [+] Alarms    %d scheduled\n", alarms.Scheduled())
	}
	if a.locales.IsWatching() {
		fmt.Fprintln(out, "  [+] Locales   watching for changes")
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop, send SIGHUP to reload locales")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

wait:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				// SIGHUP rereads the locale directory
				if reloadErr := a.locales.ReloadAll(); reloadErr != nil {
					logger.Warn("Locale reload failed", "error", reloadErr)
				} else {
					logger.Info("Locales reloaded", "locales", len(a.locales.GetAvailableLocales()))
				}
				continue
			}
			fmt.Fprintln(out, "\nStopping services...")
			break wait
		case <-ctx.Done():
			break wait
		case err = <-errCh:
			logger.Error("Service failed", "error", err)
			break wait
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout(a.config.GRPC.ShutdownTimeout.Duration))
	defer shutdownCancel()

	if httpServer != nil {
		if stopErr := httpServer.Stop(shutdownCtx); stopErr != nil {
			logger.Warn("HTTP shutdown incomplete", "error", stopErr)
		}
	}
	if grpcServer != nil {
		grpcServer.StopWithTimeout(shutdownCtx)
	}
	logger.Info("Services stopped")
	return err
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
