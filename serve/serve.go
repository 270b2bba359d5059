package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
)

const (
	DefaultPort            = 50051
	DefaultGracefulTimeout = 30 * time.Second
)

// Config controls how a Server listens and shuts down.
type Config struct {
	// Port is ignored when Listener is set. Zero picks a free port.
	Port int

	// GracefulTimeout bounds how long in-flight resolutions may run after
	// shutdown begins before the server is stopped hard.
	GracefulTimeout time.Duration

	// TLS is enabled only when both files are set.
	TLSCertFile string
	TLSKeyFile  string

	Listener  net.Listener
	Logger    *slog.Logger
	Generator id.Generator
}

// DefaultConfig returns the configuration NewServer starts from.
func DefaultConfig() *Config {
	return &Config{
		Port:            DefaultPort,
		GracefulTimeout: DefaultGracefulTimeout,
	}
}

// Server exposes a registry over gRPC as the termid.v1.Resolver service,
// alongside the standard health service.
type Server struct {
	cfg    *Config
	lis    net.Listener
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer binds the listener and registers the resolver and health
// services. Nothing is served until Serve is called.
func NewServer(reg *registry.Registry, opts ...Option) (*Server, error) {
	if reg == nil {
		return nil, errors.New("serve: registry is required")
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gen := cfg.Generator
	if gen == nil {
		gen = id.Default()
	}

	grpcOpts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(logRPC(logger))}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("serve: loading TLS key pair: %w", err)
		}
		grpcOpts = append(grpcOpts, grpc.Creds(creds))
	}

	lis := cfg.Listener
	if lis == nil {
		var err error
		if lis, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port)); err != nil {
			return nil, fmt.Errorf("serve: listen on :%d: %w", cfg.Port, err)
		}
	}

	s := &Server{
		cfg:    cfg,
		lis:    lis,
		grpc:   grpc.NewServer(grpcOpts...),
		health: health.NewServer(),
		logger: logger,
	}
	RegisterResolverServer(s.grpc, &resolverServer{registry: reg, generator: gen})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return s, nil
}

func (s *Server) GRPCServer() *grpc.Server     { return s.grpc }
func (s *Server) HealthServer() *health.Server { return s.health }

// Addr is the address the server accepts connections on.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

// Port is the bound TCP port, which differs from Config.Port when that was
// zero. It falls back to Config.Port for non-TCP listeners.
func (s *Server) Port() int {
	if tcp, ok := s.lis.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return s.cfg.Port
}

// Serve blocks until ctx is cancelled, SIGINT or SIGTERM arrives, or the
// listener fails. Cancellation returns ctx.Err(); a signal returns nil.
func (s *Server) Serve(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() { served <- s.grpc.Serve(s.lis) }()

	s.logger.Info("resolver listening", "addr", s.Addr().String())

	select {
	case err := <-served:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		s.logger.Info("shutdown requested by signal")
		s.GracefulStop()
		return nil
	case <-ctx.Done():
		s.GracefulStop()
		return ctx.Err()
	}
}

// Stop closes every connection at once.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.Stop()
	_ = s.lis.Close()
}

// GracefulStop marks the service NOT_SERVING, drains in-flight RPCs, and
// falls back to Stop once GracefulTimeout elapses.
func (s *Server) GracefulStop() {
	s.health.Shutdown()

	force := time.AfterFunc(s.cfg.GracefulTimeout, func() {
		s.logger.Warn("graceful shutdown timed out, stopping", "timeout", s.cfg.GracefulTimeout)
		s.grpc.Stop()
	})
	s.grpc.GracefulStop()
	if force.Stop() {
		s.logger.Info("resolver stopped")
	}
}

func logRPC(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "rpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
