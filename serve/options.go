package serve

import (
	"log/slog"
	"net"
	"time"

	"github.com/termgraph/termid/id"
)

// Option adjusts a Config before NewServer binds.
type Option func(*Config)

// WithPort listens on port. Zero picks a free one; read it back with Port.
func WithPort(port int) Option {
	return func(c *Config) { c.Port = port }
}

func WithGracefulShutdown(timeout time.Duration) Option {
	return func(c *Config) { c.GracefulTimeout = timeout }
}

// WithTLS serves over TLS. Empty paths leave the server in plaintext.
//
//	serve.NewServer(reg, serve.WithTLS("/etc/termid/tls.crt", "/etc/termid/tls.key"))
func WithTLS(certFile, keyFile string) Option {
	return func(c *Config) {
		c.TLSCertFile, c.TLSKeyFile = certFile, keyFile
	}
}

// WithListener serves on lis instead of opening a TCP port; tests pass a
// bufconn listener here.
func WithListener(lis net.Listener) Option {
	return func(c *Config) { c.Listener = lis }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithGenerator sets the generator behind the Derive method.
func WithGenerator(gen id.Generator) Option {
	return func(c *Config) { c.Generator = gen }
}
