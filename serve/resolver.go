package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "termid.v1.Resolver"

const (
	resolveMethod = "/" + ServiceName + "/Resolve"
	deriveMethod  = "/" + ServiceName + "/Derive"
)

// ResolverServer is the server API for the termid.v1.Resolver service.
type ResolverServer interface {
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Derive(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterResolverServer registers srv on s.
func RegisterResolverServer(s grpc.ServiceRegistrar, srv ResolverServer) {
	s.RegisterService(&resolverServiceDesc, srv)
}

var resolverServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "Derive", Handler: deriveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/proto/termid/v1/resolver.proto",
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResolverServer).Resolve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deriveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResolverServer).Derive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: deriveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResolverServer).Derive(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// resolverServer answers Resolver calls from a Registry.
type resolverServer struct {
	registry  *registry.Registry
	generator id.Generator
}

func (s *resolverServer) Resolve(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := component.ParseKind(req.GetFields()["kind"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "kind: %v", err)
	}
	u, err := uuid.Parse(req.GetFields()["uuid"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "uuid: %v", err)
	}

	entry, err := s.registry.Resolve(component.Key{Kind: kind, UUID: u})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	comp, err := refToStruct(entry.Ref)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"nid":       structpb.NewNumberValue(float64(entry.NID)),
		"component": structpb.NewStructValue(comp),
	}}, nil
}

func (s *resolverServer) Derive(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, ok := req.GetFields()["name"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	if _, isString := name.GetKind().(*structpb.Value_StringValue); !isString {
		return nil, status.Error(codes.InvalidArgument, "name must be a string")
	}

	return structpb.NewStruct(map[string]any{
		"uuid":      s.generator.Derive(name.GetStringValue()).String(),
		"namespace": s.generator.Namespace().String(),
	})
}

func refToStruct(ref component.Ref) (*structpb.Struct, error) {
	data, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("encode component: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode component: %w", err)
	}
	return out, nil
}

func structToRef(s *structpb.Struct) (component.Ref, error) {
	if s == nil {
		return nil, fmt.Errorf("missing component")
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("decode component: %w", err)
	}
	return component.Decode(data)
}
