package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/termgraph/termid/component"
)

// EtcdOptions configures an EtcdMirror.
type EtcdOptions struct {
	// Endpoints lists the etcd cluster members.
	Endpoints []string

	// Namespace is the leading key segment. Defaults to "termid".
	Namespace string

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration

	// TLS enables mutual TLS when set and enabled.
	TLS *TLSConfig
}

// EtcdMirror stores every alias as its own key, /{namespace}/{kind}/{uuid},
// holding the JSON record of the owning component.
//
// Thread-safety: All methods are safe for concurrent use.
type EtcdMirror struct {
	client    *clientv3.Client
	namespace string

	mu         sync.RWMutex
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewEtcdMirror connects to etcd and performs a health check.
func NewEtcdMirror(opts EtcdOptions) (*EtcdMirror, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if opts.Namespace == "" {
		opts.Namespace = "termid"
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}

	if opts.TLS != nil && opts.TLS.Enabled {
		tlsConfig, err := opts.TLS.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &EtcdMirror{
		client:     cli,
		namespace:  opts.Namespace,
		closedChan: make(chan struct{}),
	}, nil
}

// NewEtcdMirrorFromEnv connects using TERMID_ETCD_ENDPOINTS, a comma-separated
// endpoint list. It returns (nil, nil) when the variable is unset so callers
// can run without a mirror.
func NewEtcdMirrorFromEnv() (*EtcdMirror, error) {
	endpoints := os.Getenv("TERMID_ETCD_ENDPOINTS")
	if endpoints == "" {
		return nil, nil
	}
	return NewEtcdMirror(EtcdOptions{Endpoints: SplitEndpoints(endpoints)})
}

// SplitEndpoints parses a comma-separated endpoint list, dropping blanks.
func SplitEndpoints(s string) []string {
	var out []string
	for _, ep := range strings.Split(s, ",") {
		if ep = strings.TrimSpace(ep); ep != "" {
			out = append(out, ep)
		}
	}
	return out
}

// Publish writes one key per alias in a single transaction.
func (m *EtcdMirror) Publish(ctx context.Context, rec Record) error {
	if err := m.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	ops := make([]clientv3.Op, 0, len(rec.Ref.UUIDs()))
	for _, key := range component.Keys(rec.Ref) {
		ops = append(ops, clientv3.OpPut(m.buildKey(key), string(data)))
	}

	if _, err := m.client.Txn(ctx).Then(ops...).Commit(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", rec.Ref, err)
	}
	return nil
}

// Resolve reads the record stored under one alias.
func (m *EtcdMirror) Resolve(ctx context.Context, key component.Key) (Record, error) {
	if err := m.checkOpen(); err != nil {
		return Record{}, err
	}

	resp, err := m.client.Get(ctx, m.buildKey(key))
	if err != nil {
		return Record{}, fmt.Errorf("failed to resolve %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var rec Record
	if err := json.Unmarshal(resp.Kvs[0].Value, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode record for %s: %w", key, err)
	}
	return rec, nil
}

// List returns one record per NID, ordered by NID.
func (m *EtcdMirror) List(ctx context.Context) ([]Record, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	resp, err := m.client.Get(ctx, "/"+m.namespace+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]Record, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var rec Record
		if err := json.Unmarshal(kv.Value, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", kv.Key, err)
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].NID < records[j].NID })
	return dedupe(records), nil
}

// Watch emits the record of every alias published after the call. The
// channel is closed when ctx is canceled or the mirror is closed.
func (m *EtcdMirror) Watch(ctx context.Context) (<-chan Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, fmt.Errorf("etcd mirror is closed")
	}

	ch := make(chan Record, 16)
	watchChan := m.client.Watch(ctx, "/"+m.namespace+"/", clientv3.WithPrefix())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.closedChan:
				return
			case resp, ok := <-watchChan:
				if !ok || resp.Err() != nil {
					return
				}
				for _, ev := range resp.Events {
					if ev.Type != clientv3.EventTypePut {
						continue
					}
					var rec Record
					if err := json.Unmarshal(ev.Kv.Value, &rec); err != nil {
						continue
					}
					select {
					case ch <- rec:
					case <-ctx.Done():
						return
					case <-m.closedChan:
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// Close stops all watches and closes the etcd client.
func (m *EtcdMirror) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.closedChan)
	m.mu.Unlock()

	m.wg.Wait()
	return m.client.Close()
}

func (m *EtcdMirror) checkOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("etcd mirror is closed")
	}
	return nil
}

// buildKey constructs the etcd key for one alias.
//
// Format: /namespace/kind/uuid
func (m *EtcdMirror) buildKey(key component.Key) string {
	return fmt.Sprintf("/%s/%s/%s", m.namespace, key.Kind, key.UUID)
}
