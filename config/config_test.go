package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "termid.yaml", `
tables:
  - tables/core.yaml
  - /abs/extra.yaml
strict_cross_kind: true
redis:
  url: redis://localhost:6379/2
  timeout: 2s
etcd:
  endpoints: [a:2379, b:2379]
  dial_timeout: nope
serve:
  port: 9090
log:
  level: debug
  format: json
`)

	t.Run("directory", func(t *testing.T) {
		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join(dir, "tables/core.yaml"), "/abs/extra.yaml"}, cfg.Tables)
		assert.True(t, cfg.StrictCrossKind)
		assert.Equal(t, 2*time.Second, cfg.Redis.GetTimeout())
		assert.Equal(t, 5*time.Second, cfg.Etcd.GetDialTimeout(), "invalid duration falls back")
		assert.Equal(t, []string{"a:2379", "b:2379"}, cfg.Etcd.Options().Endpoints)
		assert.Equal(t, 9090, cfg.Serve.GetPort())
		assert.Equal(t, slog.LevelDebug, cfg.Log.GetLevel())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "termid.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.Options().URL)
	})

	t.Run("yml fallback", func(t *testing.T) {
		other := t.TempDir()
		writeFile(t, other, "termid.yml", "namespace: 6ba7b810-9dad-11d1-80b4-00c04fd430c8\n")
		cfg, err := Load(other)
		require.NoError(t, err)
		ns, err := cfg.GetNamespace()
		require.NoError(t, err)
		assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", ns.String())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		bad := t.TempDir()
		writeFile(t, bad, "termid.yaml", "tables: {")
		_, err := Load(bad)
		assert.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ns, err := cfg.GetNamespace()
	require.NoError(t, err)
	assert.Equal(t, id.Namespace, ns)

	assert.Equal(t, 50051, cfg.Serve.GetPort())
	assert.Equal(t, 30*time.Second, cfg.Serve.GetGracefulTimeout())
	assert.Equal(t, slog.LevelInfo, cfg.Log.GetLevel())
}

func TestNilSectionGetters(t *testing.T) {
	var (
		r *RedisConfig
		e *EtcdConfig
		s *ServeConfig
		l *LogConfig
	)
	assert.Equal(t, 5*time.Second, r.GetTimeout())
	assert.Equal(t, 5*time.Second, e.GetDialTimeout())
	assert.Equal(t, 50051, s.GetPort())
	assert.Equal(t, 30*time.Second, s.GetGracefulTimeout())
	assert.Equal(t, slog.LevelInfo, l.GetLevel())
	assert.NotNil(t, l.NewLogger(&bytes.Buffer{}))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TERMID_TABLES", "a.yaml, b.yaml")
	t.Setenv("TERMID_STRICT_CROSS_KIND", "true")
	t.Setenv("TERMID_REDIS_URL", "redis://cache:6379")
	t.Setenv("TERMID_ETCD_ENDPOINTS", "etcd-0:2379,etcd-1:2379")
	t.Setenv("TERMID_SERVE_PORT", "7000")
	t.Setenv("TERMID_LOG_LEVEL", "warn")
	t.Setenv("TERMID_LOG_FORMAT", "json")

	cfg := &Config{}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Tables)
	assert.True(t, cfg.StrictCrossKind)
	assert.Equal(t, "redis://cache:6379", cfg.Redis.URL)
	assert.Equal(t, []string{"etcd-0:2379", "etcd-1:2379"}, cfg.Etcd.Endpoints)
	assert.Equal(t, 7000, cfg.Serve.Port)
	assert.Equal(t, slog.LevelWarn, cfg.Log.GetLevel())

	var buf bytes.Buffer
	cfg.Log.NewLogger(&buf).Warn("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv("TERMID_SERVE_PORT", "http")
	assert.ErrorIs(t, (&Config{}).ApplyEnv(), ErrInvalidConfig)

	t.Setenv("TERMID_SERVE_PORT", "")
	t.Setenv("TERMID_STRICT_CROSS_KIND", "maybe")
	assert.ErrorIs(t, (&Config{}).ApplyEnv(), ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "bad namespace", cfg: Config{Namespace: "nope"}},
		{name: "redis without url", cfg: Config{Redis: &RedisConfig{}}},
		{name: "etcd without endpoints", cfg: Config{Etcd: &EtcdConfig{}}},
		{name: "etcd tls incomplete", cfg: Config{Etcd: &EtcdConfig{Endpoints: []string{"x"}, TLS: &registry.TLSConfig{Enabled: true}}}},
		{name: "port range", cfg: Config{Serve: &ServeConfig{Port: 70000}}},
		{name: "half tls", cfg: Config{Serve: &ServeConfig{TLSCertFile: "c"}}},
		{name: "log format", cfg: Config{Log: &LogConfig{Format: "xml"}}},
		{name: "log level", cfg: Config{Log: &LogConfig{Level: "loud"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), ErrInvalidConfig)
		})
	}
}
