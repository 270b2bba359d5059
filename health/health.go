// Package health reports whether the inputs a catalog depends on are
// usable: binding tables on disk, mirror stores, and network endpoints.
//
// Checks never panic and never return errors. Failures are carried in the
// Status message and details.
//
//	status := health.Combine(
//		health.TableCheck("bindings/"),
//		health.MirrorCheck(ctx, "redis", mirror),
//	)
//	if !status.IsHealthy() {
//		logger.Warn("catalog inputs degraded", "message", status.Message)
//	}
package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/registry"
)

const (
	// StatusHealthy indicates the input is fully usable.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the input is usable with warnings.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the input cannot be used.
	StatusUnhealthy = "unhealthy"
)

// DefaultTimeout bounds checks whose context carries no deadline.
const DefaultTimeout = 5 * time.Second

// Status is the outcome of one check or a combination of checks.
type Status struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (s Status) IsHealthy() bool   { return s.Status == StatusHealthy }
func (s Status) IsDegraded() bool  { return s.Status == StatusDegraded }
func (s Status) IsUnhealthy() bool { return s.Status == StatusUnhealthy }

func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// TableCheck loads and validates the binding table at path. Cross-kind
// findings make the result degraded.
func TableCheck(path string, opts ...binding.ValidateOption) Status {
	if path == "" {
		return Unhealthy("path cannot be empty", nil)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Unhealthy(
				fmt.Sprintf("table '%s' does not exist", path),
				map[string]any{"path": path},
			)
		}
		return Unhealthy(
			fmt.Sprintf("failed to stat table '%s'", path),
			map[string]any{"path": path, "error": err.Error()},
		)
	}

	table, err := binding.Load(path)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("failed to load table '%s'", path),
			map[string]any{"path": path, "error": err.Error()},
		)
	}

	report, err := table.Validate(opts...)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("table '%s' is invalid", path),
			map[string]any{"path": path, "error": err.Error()},
		)
	}

	if len(report.CrossKind) > 0 {
		shared := make([]string, len(report.CrossKind))
		for i, f := range report.CrossKind {
			shared[i] = f.UUID.String()
		}
		return Degraded(
			fmt.Sprintf("table '%s' shares %d uuid(s) across kinds", path, len(shared)),
			map[string]any{"path": path, "shared": shared},
		)
	}

	return Healthy(fmt.Sprintf("table '%s' has %d concepts and %d patterns",
		path, report.Concepts, report.Patterns))
}

// MirrorCheck lists the records held by m. An empty mirror is degraded.
func MirrorCheck(ctx context.Context, name string, m registry.Mirror) Status {
	if m == nil {
		return Unhealthy(fmt.Sprintf("mirror '%s' is not configured", name), nil)
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	recs, err := m.List(ctx)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("failed to list mirror '%s'", name),
			map[string]any{"mirror": name, "error": err.Error()},
		)
	}
	if len(recs) == 0 {
		return Degraded(
			fmt.Sprintf("mirror '%s' holds no records", name),
			map[string]any{"mirror": name},
		)
	}

	return Healthy(fmt.Sprintf("mirror '%s' holds %d records", name, len(recs)))
}

// NetworkCheck dials address ("host:port") over TCP.
func NetworkCheck(ctx context.Context, address string) Status {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return Unhealthy(
			fmt.Sprintf("invalid address '%s'", address),
			map[string]any{"address": address},
		)
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return Unhealthy(
			fmt.Sprintf("failed to connect to %s", address),
			map[string]any{"address": address, "error": err.Error()},
		)
	}
	conn.Close()

	return Healthy(fmt.Sprintf("successfully connected to %s", address))
}

// Combine folds statuses into one: unhealthy if any check is unhealthy,
// else degraded if any is degraded.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthy, degraded []string
	var healthy int

	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthy = append(unhealthy, msg)
		case StatusDegraded:
			degraded = append(degraded, msg)
		case StatusHealthy:
			healthy++
		}
	}

	if len(unhealthy) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthy)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthy),
				"degraded":      len(degraded),
				"healthy":       healthy,
				"failed_checks": unhealthy,
			},
		)
	}

	if len(degraded) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degraded)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degraded),
				"healthy":         healthy,
				"degraded_checks": degraded,
			},
		)
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
