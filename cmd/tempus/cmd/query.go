package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	chronosServer "github.com/msto63/tempus/internal/chronos/server"
	coregrpc "github.com/msto63/tempus/pkg/core/grpc"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	queryAddr    string
	queryTimeout time.Duration
)

var queryCmd = &cobra.Command{
	Use:   "query <method> [request]",
	Short: "Call a method of a running calendar server",
	Long: `Call a method of a running calendar server over gRPC. The request is
a JSON object and the response is printed as JSON.

Methods:
  Format, Parse, Reformat, Validate, Between, Shift, Generate,
  Month, Locales, Now, Health, Clock (streams ticks)

Examples:
  tempus query Health
  tempus query Format '{"pattern": "%d.%m.%Y", "date": {"timestamp": 1382313600}}'
  tempus query Month '{"year": 2013, "month": 10, "monday_first": true}'
  tempus query Clock '{"pattern": "%H:%M:%S", "count": 3}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryAddr, "addr", "", "server address (default: $TEMPUS_GRPC_ADDR or the configured grpc port on localhost)")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 10*time.Second, "timeout of unary calls")

	rootCmd.AddCommand(queryCmd)
}

// serverAddress resolves the address of the gRPC server to call
func serverAddress() string {
	if queryAddr != "" {
		return queryAddr
	}
	if addr := os.Getenv("TEMPUS_GRPC_ADDR"); addr != "" {
		return addr
	}
	port := 9400
	if cfg, err := loadConfig(); err == nil && cfg.GRPC.Port != 0 {
		port = cfg.GRPC.Port
	}
	return net.JoinHostPort("localhost", strconv.Itoa(port))
}

func runQuery(cmd *cobra.Command, args []string) error {
	method := args[0]
	request := json.RawMessage("{}")
	if len(args) > 1 {
		request = json.RawMessage(args[1])
		if !json.Valid(request) {
			return fmt.Errorf("request is not valid JSON")
		}
	}

	cfg := coregrpc.DefaultClientConfig(serverAddress())
	cfg.Logger = logging.Wrap(logging.NewLogger(logging.LoggerConfig{
		ServiceName: "tempus-query",
		Level:       queryLogLevel(),
		Format:      "text",
		Output:      cmd.ErrOrStderr(),
	}))
	conn, err := coregrpc.Dial(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	client := chronosServer.NewClient(conn)

	if method == chronosServer.MethodClock {
		var req chronosServer.ClockRequest
		if err := json.Unmarshal(request, &req); err != nil {
			return fmt.Errorf("invalid clock request: %w", err)
		}
		out := cmd.OutOrStdout()
		return client.Clock(cmd.Context(), req, func(tick chronosServer.ClockTick) error {
			_, err := fmt.Fprintln(out, tick.Text)
			return err
		})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()

	var response map[string]interface{}
	if err := client.Call(ctx, method, request, &response); err != nil {
		return err
	}
	return printJSON(cmd, response)
}

func queryLogLevel() string {
	if verbose {
		return "debug"
	}
	return "error"
}
