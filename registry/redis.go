package registry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/termgraph/termid/component"
)

// RedisOptions configures a RedisMirror.
type RedisOptions struct {
	// URL defaults to "redis://localhost:6379". rediss:// URLs enable TLS.
	URL string

	// Prefix namespaces the per-kind hashes. Defaults to "termid".
	Prefix string

	// TLS overrides the TLS settings derived from URL.
	TLS *tls.Config

	// Timeouts default to 5s for dialing and 3s per read or write.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// RedisMirror stores one hash per kind, mapping each alias UUID to the JSON
// record of its component.
//
//	termid:concept  02018e5a-...  {"nid":1,"component":{...}}
//	termid:concept  06d905ea-...  {"nid":1,"component":{...}}
//	termid:pattern  08f9112c-...  {"nid":2,"component":{...}}
type RedisMirror struct {
	client *redis.Client
	prefix string
}

// NewRedisMirror connects to Redis and verifies the connection.
func NewRedisMirror(opts RedisOptions) (*RedisMirror, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = "termid"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if opts.TLS != nil {
		ro.TLSConfig = opts.TLS
	}
	ro.DialTimeout, ro.ReadTimeout, ro.WriteTimeout = opts.ConnectTimeout, opts.ReadTimeout, opts.WriteTimeout

	client := redis.NewClient(ro)

	pingCtx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMirror{client: client, prefix: opts.Prefix}, nil
}

func (m *RedisMirror) hashKey(kind component.Kind) string {
	return m.prefix + ":" + kind.String()
}

// Publish writes rec under every alias in a single transaction.
func (m *RedisMirror) Publish(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	key := m.hashKey(rec.Ref.Kind())
	fields := make([]any, 0, 2*len(rec.Ref.UUIDs()))
	for _, u := range rec.Ref.UUIDs() {
		fields = append(fields, u.String(), data)
	}

	_, err = m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", rec.Ref, err)
	}
	return nil
}

// Resolve looks up one alias.
func (m *RedisMirror) Resolve(ctx context.Context, key component.Key) (Record, error) {
	data, err := m.client.HGet(ctx, m.hashKey(key.Kind), key.UUID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to resolve %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode record for %s: %w", key, err)
	}
	return rec, nil
}

// List returns one record per NID across both kinds, ordered by NID.
func (m *RedisMirror) List(ctx context.Context) ([]Record, error) {
	var records []Record
	for _, kind := range component.Kinds {
		all, err := m.client.HGetAll(ctx, m.hashKey(kind)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
		}
		for field, value := range all {
			var rec Record
			if err := json.Unmarshal([]byte(value), &rec); err != nil {
				return nil, fmt.Errorf("failed to decode %s record %s: %w", kind, field, err)
			}
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].NID < records[j].NID })
	return dedupe(records), nil
}

// Close releases the client's connection pool.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}
