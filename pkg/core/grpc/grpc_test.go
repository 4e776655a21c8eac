package grpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"github.com/msto63/tempus/pkg/core/config"
	"github.com/msto63/tempus/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.Wrap(mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Output: buf}))
}

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/tempus.chronos.v1.Calendar/Format"}

func TestToStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"unknown locale", mdwerror.New("x").WithCode(mdwerror.CodeUnknownLocale), codes.NotFound},
		{"invalid date", mdwerror.New("x").WithCode(mdwerror.CodeInvalidDate), codes.InvalidArgument},
		{"unknown unit", mdwerror.New("x").WithCode(mdwerror.CodeUnknownUnit), codes.InvalidArgument},
		{"duplicate", mdwerror.New("x").WithCode(mdwerror.CodeDuplicateEntry), codes.AlreadyExists},
		{"database", mdwerror.New("x").WithCode(mdwerror.CodeDatabaseError), codes.Internal},
		{"wrapped structured", fmt.Errorf("outer: %w", mdwerror.New("x").WithCode(mdwerror.CodeNotFound)), codes.NotFound},
		{"plain", errors.New("boom"), codes.Internal},
		{"canceled", context.Canceled, codes.Canceled},
		{"status kept", status.Error(codes.Unauthenticated, "no"), codes.Unauthenticated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tc.err)); got != tc.want {
				t.Errorf("ToStatus() code = %v, want %v", got, tc.want)
			}
		})
	}

	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) != nil")
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := RecoveryInterceptor(bufferLogger(&buf))

	_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("broken token")
	})

	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("log = %s, want panic entry", buf.String())
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	capture := func(ctx context.Context, req interface{}) (interface{}, error) {
		return GetRequestID(ctx), nil
	}

	// Generated when absent
	resp, err := interceptor(context.Background(), nil, testInfo, capture)
	if err != nil {
		t.Fatalf("interceptor() error = %v", err)
	}
	if id, _ := resp.(string); len(id) != 36 {
		t.Errorf("generated request id = %q, want a uuid", id)
	}

	// Taken from incoming metadata
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))
	resp, _ = interceptor(ctx, nil, testInfo, capture)
	if resp != "req-42" {
		t.Errorf("request id = %v, want req-42", resp)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(bufferLogger(&buf))

	ctx := WithRequestID(context.Background(), "req-7")
	_, _ = interceptor(ctx, nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "bad pattern")
	})

	out := buf.String()
	for _, want := range []string{"req-7", testInfo.FullMethod, "InvalidArgument"} {
		if !strings.Contains(out, want) {
			t.Errorf("log = %s, want %q", out, want)
		}
	}
}

func TestErrorInterceptor(t *testing.T) {
	interceptor := ErrorInterceptor()

	_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, mdwerror.New("unknown locale").WithCode(mdwerror.CodeUnknownLocale)
	})
	if status.Code(err) != codes.NotFound {
		t.Errorf("code = %v, want NotFound", status.Code(err))
	}

	resp, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Errorf("interceptor() = %v, %v, want ok, nil", resp, err)
	}
}

func TestServerConfigFrom(t *testing.T) {
	sc := ServerConfigFrom(config.GRPCConfig{Host: "127.0.0.1", Port: 9555, Reflection: true})

	if sc.Host != "127.0.0.1" || sc.Port != 9555 {
		t.Errorf("ServerConfigFrom() = %+v", sc)
	}
	if !sc.EnableReflection {
		t.Error("EnableReflection = false, want true")
	}
	if sc.MaxRecvMsgSize != DefaultServerConfig().MaxRecvMsgSize {
		t.Errorf("MaxRecvMsgSize = %d, want default", sc.MaxRecvMsgSize)
	}
}

func TestServerLifecycle(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	var buf bytes.Buffer
	server := NewServer(cfg, bufferLogger(&buf))
	if err := server.StartAsync(); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}
	if addr := server.Address(); strings.HasSuffix(addr, ":0") {
		t.Errorf("Address() = %s, want the bound port", addr)
	}

	conn, err := DialSimple(server.Address())
	if err != nil {
		t.Fatalf("DialSimple() error = %v", err)
	}
	defer conn.Close()

	// No services registered
	err = conn.Invoke(context.Background(), "/tempus.chronos.v1.Calendar/Missing", &emptypb.Empty{}, &emptypb.Empty{})
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("Invoke() code = %v, want Unimplemented", status.Code(err))
	}

	server.StopWithTimeout(context.Background())
}
