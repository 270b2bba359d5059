package serve

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
)

var (
	englishA  = uuid.MustParse("02018e5a-46ba-5297-92f1-6931b9f98a12")
	englishB  = uuid.MustParse("06d905ea-c647-3af9-bfe5-2514e135b558")
	usDialect = uuid.MustParse("08f9112c-c041-56d3-b89b-63258f070074")
)

// setupTestServer serves reg over an in-memory listener and returns a
// connection to it.
func setupTestServer(t *testing.T, reg *registry.Registry) *grpc.ClientConn {
	t.Helper()

	const bufSize = 1024 * 1024
	lis := bufconn.Listen(bufSize)

	srv, err := NewServer(reg,
		WithListener(lis),
		WithGracefulShutdown(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
		lis.Close()
	})

	return conn
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(registry.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	_, err := reg.RegisterConcept(component.MustConcept("English Language", englishA, englishB))
	require.NoError(t, err)
	_, err = reg.RegisterPattern(component.MustPattern("US Dialect Pattern", usDialect))
	require.NoError(t, err)
	return reg
}

func TestResolveOverGRPC(t *testing.T) {
	conn := setupTestServer(t, testRegistry(t))
	client := NewClient(conn)
	defer client.Close()

	ctx := context.Background()

	for _, u := range []uuid.UUID{englishA, englishB} {
		entry, err := client.Resolve(ctx, component.KindConcept, u)
		require.NoError(t, err)
		assert.Equal(t, registry.NID(1), entry.NID)

		c, ok := entry.Ref.(component.Concept)
		require.True(t, ok)
		assert.Equal(t, "English Language", c.Label())
		assert.Equal(t, []uuid.UUID{englishA, englishB}, c.UUIDs())
	}

	entry, err := client.Resolve(ctx, component.KindPattern, usDialect)
	require.NoError(t, err)
	_, ok := entry.Ref.(component.Pattern)
	assert.True(t, ok)

	_, err = client.Resolve(ctx, component.KindConcept, usDialect)
	assert.True(t, errors.Is(err, registry.ErrNotFound), "got %v", err)
}

func TestResolveInvalidArguments(t *testing.T) {
	conn := setupTestServer(t, testRegistry(t))
	ctx := context.Background()

	tests := []struct {
		name string
		req  map[string]any
	}{
		{name: "missing kind", req: map[string]any{"uuid": englishA.String()}},
		{name: "bad kind", req: map[string]any{"kind": "relationship", "uuid": englishA.String()}},
		{name: "bad uuid", req: map[string]any{"kind": "concept", "uuid": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.req)
			require.NoError(t, err)

			err = conn.Invoke(ctx, resolveMethod, req, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestDeriveOverGRPC(t *testing.T) {
	conn := setupTestServer(t, testRegistry(t))
	client := NewClient(conn)
	ctx := context.Background()

	u, err := client.Derive(ctx, "English Language")
	require.NoError(t, err)
	assert.Equal(t, id.Derive("English Language"), u)
	assert.Equal(t, "4f8fe181-9a0f-564c-aa28-afc6458ef808", u.String())

	err = conn.Invoke(ctx, deriveMethod, &structpb.Struct{}, new(structpb.Struct))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	req, err := structpb.NewStruct(map[string]any{"name": 42})
	require.NoError(t, err)
	err = conn.Invoke(ctx, deriveMethod, req, new(structpb.Struct))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	conn := setupTestServer(t, testRegistry(t))

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestNewServer(t *testing.T) {
	t.Run("nil registry", func(t *testing.T) {
		_, err := NewServer(nil)
		assert.Error(t, err)
	})

	t.Run("ephemeral port", func(t *testing.T) {
		srv, err := NewServer(registry.New(), WithPort(0))
		require.NoError(t, err)
		defer srv.Stop()

		assert.Greater(t, srv.Port(), 0)
		assert.NotNil(t, srv.GRPCServer())
		assert.NotNil(t, srv.HealthServer())
	})

	t.Run("bad tls files", func(t *testing.T) {
		_, err := NewServer(registry.New(), WithPort(0), WithTLS("missing.crt", "missing.key"))
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50051, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.GracefulTimeout)
}
