package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "tempus.chronos.v1.Calendar"

// Method names
const (
	MethodFormat   = "Format"
	MethodParse    = "Parse"
	MethodReformat = "Reformat"
	MethodValidate = "Validate"
	MethodBetween  = "Between"
	MethodShift    = "Shift"
	MethodGenerate = "Generate"
	MethodMonth    = "Month"
	MethodLocales  = "Locales"
	MethodNow      = "Now"
	MethodHealth   = "Health"
	MethodClock    = "Clock"
)

// FullMethod returns the gRPC path of a method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CalendarServer is the server API of the calendar service
type CalendarServer interface {
	Format(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reformat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Between(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Shift(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Generate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Month(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Locales(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Now(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Clock(*structpb.Struct, ClockStream) error
}

// ClockStream is the server side of the Clock stream
type ClockStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type clockStream struct {
	grpc.ServerStream
}

func (s *clockStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

type unaryCall func(srv CalendarServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CalendarServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CalendarServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func clockHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(CalendarServer).Clock(in, &clockStream{stream})
}

// ServiceDesc describes the calendar service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalendarServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodFormat, CalendarServer.Format),
		unaryHandler(MethodParse, CalendarServer.Parse),
		unaryHandler(MethodReformat, CalendarServer.Reformat),
		unaryHandler(MethodValidate, CalendarServer.Validate),
		unaryHandler(MethodBetween, CalendarServer.Between),
		unaryHandler(MethodShift, CalendarServer.Shift),
		unaryHandler(MethodGenerate, CalendarServer.Generate),
		unaryHandler(MethodMonth, CalendarServer.Month),
		unaryHandler(MethodLocales, CalendarServer.Locales),
		unaryHandler(MethodNow, CalendarServer.Now),
		unaryHandler(MethodHealth, CalendarServer.Health),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodClock,
			Handler:       clockHandler,
			ServerStreams: true,
		},
	},
	Metadata: "tempus/chronos/v1/calendar.proto",
}

// RegisterCalendarServer registers srv on s
func RegisterCalendarServer(s grpc.ServiceRegistrar, srv CalendarServer) {
	s.RegisterService(&ServiceDesc, srv)
}
