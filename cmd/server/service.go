package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// KingdomServiceServer is the server API for kingdom.v1.KingdomService.
// Requests and responses are save documents carried as protobuf structs.
type KingdomServiceServer interface {
	// Summarize returns the derived figures of the posted state
	Summarize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// EndDay runs one day on the posted state and returns the new state
	EndDay(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

const (
	kingdomServiceName = "kingdom.v1.KingdomService"
	summarizeMethod    = "/" + kingdomServiceName + "/Summarize"
	endDayMethod       = "/" + kingdomServiceName + "/EndDay"
)

// RegisterKingdomServiceServer registers srv with s
func RegisterKingdomServiceServer(s grpc.ServiceRegistrar, srv KingdomServiceServer) {
	s.RegisterService(&kingdomServiceDesc, srv)
}

var kingdomServiceDesc = grpc.ServiceDesc{
	ServiceName: kingdomServiceName,
	HandlerType: (*KingdomServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Summarize", Handler: summarizeHandler},
		{MethodName: "EndDay", Handler: endDayHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kingdom/v1/kingdom.proto",
}

func summarizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KingdomServiceServer).Summarize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: summarizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KingdomServiceServer).Summarize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func endDayHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KingdomServiceServer).EndDay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: endDayMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KingdomServiceServer).EndDay(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// kingdomClient calls KingdomService over an existing connection
type kingdomClient struct {
	cc grpc.ClientConnInterface
}

func (c *kingdomClient) Summarize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, summarizeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kingdomClient) EndDay(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, endDayMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
