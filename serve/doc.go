// Package serve exposes a Registry over gRPC.
//
// The termid.v1.Resolver service has two unary methods. Requests and responses
// are google.protobuf.Struct messages, so no generated stubs are needed:
//
//	Resolve  {"kind": "concept", "uuid": "..."}
//	      -> {"nid": 1, "component": {"kind": "concept", "label": "...", "uuids": [...]}}
//	Derive   {"name": "English Language"}
//	      -> {"uuid": "...", "namespace": "..."}
//
// The standard grpc.health.v1 service is registered alongside it.
//
// Example:
//
//	srv, err := serve.NewServer(reg, serve.WithPort(50051))
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(srv.Serve(ctx))
package serve
