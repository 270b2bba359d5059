// Package termid identifies the components of a terminology graph.
//
// Every concept and every semantic pattern is named by one or more UUIDs. New
// components get a version-5 UUID derived from their name in a fixed identity
// namespace, so any process computes the same identifier for the same name.
// Components imported from other systems keep their original UUIDs as aliases;
// two proxies denote the same component when their alias sets intersect.
//
// # Packages
//
//   - id: the identity namespace and deterministic derivation
//   - component: immutable, kind-specific Concept and Pattern proxies
//   - binding: YAML binding tables, one-pass validation, and code generation
//   - registry: the concurrent alias index with Redis and etcd mirrors
//   - terms: the embedded well-known bindings as typed variables
//   - serve: a gRPC resolver
//   - config: termid.yaml loading
//
// # Getting Started
//
//	cat, err := termid.Open(ctx, termid.WithTables("bindings/"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cat.Close()
//
//	english, err := cat.Concept(uuid.MustParse("06d905ea-c647-3af9-bfe5-2514e135b558"))
//
// # Error Handling
//
// Failures from Open and the Catalog lookups are *Error values carrying a Kind
// such as KindAmbiguousAlias or KindNotFound. The underlying sentinels from the
// binding and registry packages remain reachable through errors.Is.
package termid
