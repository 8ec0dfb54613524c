// Package rpc serves the simulator over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON shape as the HTTP API.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "roic.v1.SimulatorService"

	SingleYearMethod = "/" + ServiceName + "/SingleYear"
	ProjectMethod    = "/" + ServiceName + "/Project"
	AnalyzeMethod    = "/" + ServiceName + "/Analyze"
	ProfilesMethod   = "/" + ServiceName + "/Profiles"
)

// SimulatorServer is the server API for roic.v1.SimulatorService.
type SimulatorServer interface {
	SingleYear(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Project(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Profiles(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes roic.v1.SimulatorService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SingleYear", Handler: unary(SingleYearMethod, SimulatorServer.SingleYear)},
		{MethodName: "Project", Handler: unary(ProjectMethod, SimulatorServer.Project)},
		{MethodName: "Analyze", Handler: unary(AnalyzeMethod, SimulatorServer.Analyze)},
		{MethodName: "Profiles", Handler: unary(ProfilesMethod, SimulatorServer.Profiles)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roic/v1/simulator.proto",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type method func(SimulatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(fullMethod string, call method) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
