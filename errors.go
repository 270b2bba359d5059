package termid

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/registry"
)

// Sentinels matched by errors.Is against any *Error returned from this package.
var (
	// ErrNotFound indicates no component owns the requested UUID.
	ErrNotFound = registry.ErrNotFound

	// ErrAmbiguousAlias indicates aliases spanning two or more components.
	ErrAmbiguousAlias = registry.ErrAmbiguousAlias

	// ErrInvalidConfig indicates a termid.yaml or option set that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Values of Error.Kind.
const (
	// KindMalformedBinding represents a binding entry that cannot produce a
	// valid component proxy.
	KindMalformedBinding = "malformed_binding"

	// KindAmbiguousAlias represents a UUID claimed by two components of the
	// same kind.
	KindAmbiguousAlias = "ambiguous_alias"

	// KindCrossKind represents a UUID shared by a concept and a pattern under
	// strict validation.
	KindCrossKind = "cross_kind"

	// KindNotFound represents lookups of unregistered UUIDs.
	KindNotFound = "not_found"

	// KindConfiguration represents rejected options or config files.
	KindConfiguration = "configuration"

	// KindMirror represents failures talking to a shared index mirror.
	KindMirror = "mirror"
)

// Error records which catalog operation failed, how the failure is
// classified, and the cause.
//
//	var terr *termid.Error
//	if errors.As(err, &terr) && terr.Kind == termid.KindAmbiguousAlias {
//		...
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Open", "Catalog.Resolve").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindMalformedBinding).
	Kind string

	Err error

	// Context carries diagnostic values such as the table path or mirror URL.
	Context map[string]any
}

// Error formats as "termid: op (kind): cause", followed by the context when set.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("termid: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("termid: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("termid: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op, when the target sets one), or
// delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewNotFoundError creates a new Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewMirrorError creates a new Error with KindMirror.
func NewMirrorError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindMirror, Err: err}
}

// NewBindingError classifies a binding or registration failure. Ambiguous
// aliases win over cross-kind findings, which win over malformed entries.
func NewBindingError(op string, err error) *Error {
	kind := KindMalformedBinding
	switch {
	case errors.Is(err, ErrAmbiguousAlias):
		kind = KindAmbiguousAlias
	case errors.Is(err, binding.ErrCrossKind):
		kind = KindCrossKind
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// CloseWithLog closes closer, logging a failure as a warning instead of
// returning it.
//
//	defer termid.CloseWithLog(mirror, logger, "redis mirror")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("close failed",
			"resource", name,
			"error", err)
	}
}
