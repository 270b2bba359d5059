package serve

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/registry"
)

// Client calls a remote Resolver.
type Client struct {
	conn  *grpc.ClientConn
	owned bool
}

// Dial connects to a Resolver at target. Without explicit dial options the
// connection is insecure.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver client: %w", err)
	}
	return &Client{conn: conn, owned: true}, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Resolve looks up the component owning u. A missing component is reported as
// registry.ErrNotFound.
func (c *Client) Resolve(ctx context.Context, kind component.Kind, u uuid.UUID) (registry.Entry, error) {
	req, err := structpb.NewStruct(map[string]any{
		"kind": kind.String(),
		"uuid": u.String(),
	})
	if err != nil {
		return registry.Entry{}, err
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, resolveMethod, req, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return registry.Entry{}, fmt.Errorf("%w: %s/%s", registry.ErrNotFound, kind, u)
		}
		return registry.Entry{}, fmt.Errorf("resolve %s/%s: %w", kind, u, err)
	}

	ref, err := structToRef(resp.GetFields()["component"].GetStructValue())
	if err != nil {
		return registry.Entry{}, err
	}
	if ref.Kind() != kind {
		return registry.Entry{}, fmt.Errorf("resolve %s/%s: %w", kind, u, component.ErrKindMismatch)
	}
	return registry.Entry{
		NID: registry.NID(resp.GetFields()["nid"].GetNumberValue()),
		Ref: ref,
	}, nil
}

// Derive asks the server for the identifier of name.
func (c *Client) Derive(ctx context.Context, name string) (uuid.UUID, error) {
	req, err := structpb.NewStruct(map[string]any{"name": name})
	if err != nil {
		return uuid.Nil, err
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, deriveMethod, req, resp); err != nil {
		return uuid.Nil, fmt.Errorf("derive %q: %w", name, err)
	}

	u, err := uuid.Parse(resp.GetFields()["uuid"].GetStringValue())
	if err != nil {
		return uuid.Nil, fmt.Errorf("derive %q: %w", name, err)
	}
	return u, nil
}

// Close closes the connection if the client created it.
func (c *Client) Close() error {
	if !c.owned {
		return nil
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
