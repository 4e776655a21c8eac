package server

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the calendar service with the service's own request types
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps a connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call invokes a unary method. in is encoded as the request message and
// the response is decoded into out when out is not nil.
func (c *Client) Call(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	if in == nil {
		in = struct{}{}
	}
	req, err := Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, resp, opts...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return Decode(resp, out)
}

// Clock opens the clock stream and calls fn for every tick until the
// stream ends or ctx is cancelled.
func (c *Client) Clock(ctx context.Context, req ClockRequest, fn func(ClockTick) error, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}

	stream, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod(MethodClock), opts...)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(in); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		var tick ClockTick
		if err := Decode(msg, &tick); err != nil {
			return err
		}
		if err := fn(tick); err != nil {
			return err
		}
	}
}
