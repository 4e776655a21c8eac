// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     grpc
// Description: Integration test helpers for the calendar gRPC service
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	chronosServer "github.com/msto63/tempus/internal/chronos/server"
	coregrpc "github.com/msto63/tempus/pkg/core/grpc"
	"google.golang.org/grpc"
)

// ServiceConfig holds the address of a running server
type ServiceConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// DefaultServiceConfig reads TEMPUS_GRPC_HOST and TEMPUS_GRPC_PORT
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Host:    getEnvOrDefault("TEMPUS_GRPC_HOST", "localhost"),
		Port:    getEnvOrDefaultInt("TEMPUS_GRPC_PORT", 9400),
		Timeout: 10 * time.Second,
	}
}

// Address returns host:port
func (c ServiceConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TestConnection is a client connection to a running server
type TestConnection struct {
	conn   *grpc.ClientConn
	client *chronosServer.Client
	config ServiceConfig
}

// NewTestConnection connects and checks the server with a Health call
func NewTestConnection(cfg ServiceConfig) (*TestConnection, error) {
	conn, err := coregrpc.DialSimple(cfg.Address())
	if err != nil {
		return nil, err
	}
	tc := &TestConnection{conn: conn, client: chronosServer.NewClient(conn), config: cfg}

	ctx, cancel := tc.Context()
	defer cancel()
	var report map[string]interface{}
	if err := tc.client.Call(ctx, chronosServer.MethodHealth, nil, &report); err != nil {
		conn.Close()
		return nil, fmt.Errorf("calendar server not reachable at %s: %w", cfg.Address(), err)
	}
	return tc, nil
}

// Client returns the calendar client
func (tc *TestConnection) Client() *chronosServer.Client {
	return tc.client
}

// Context returns a context with the configured timeout
func (tc *TestConnection) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), tc.config.Timeout)
}

// Close closes the connection
func (tc *TestConnection) Close() error {
	return tc.conn.Close()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
