// Package rpc describes the memoria gRPC services without generated stubs.
// Every method is unary and exchanges google.protobuf.Struct messages, so
// any gRPC client can call it with a dynamic message.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// UnaryFunc handles one request message.
type UnaryFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Method binds a method name to its handler.
type Method struct {
	Name    string
	Handler UnaryFunc
}

// Service is implemented by every handler that can be registered on a gRPC server.
type Service interface {
	// ServiceName returns the fully qualified service name, e.g. "api.Posts".
	ServiceName() string
	Methods() []Method
}

// FullMethod returns "/<service>/<method>".
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// Desc builds the grpc.ServiceDesc for svc.
func Desc(svc Service) *grpc.ServiceDesc {
	name := svc.ServiceName()
	methods := svc.Methods()

	desc := &grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: (*Service)(nil),
		Methods:     make([]grpc.MethodDesc, 0, len(methods)),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "memoria.proto",
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.Name,
			Handler:    unary(FullMethod(name, m.Name), m.Handler),
		})
	}
	return desc
}

// Register registers every service on the server.
func Register(s grpc.ServiceRegistrar, services ...Service) {
	for _, svc := range services {
		s.RegisterService(Desc(svc), svc)
	}
}

func unary(fullMethod string, fn UnaryFunc) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Invoke calls a unary method over conn. It is the client-side counterpart of Desc.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, service, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(service, method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
