package termid

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/registry"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  &Error{Op: "Open", Kind: KindConfiguration},
			want: "termid: Open: configuration",
		},
		{
			name: "with cause",
			err:  NewNotFoundError("Catalog.Concept", ErrNotFound),
			want: "termid: Catalog.Concept (not_found): component not found",
		},
		{
			name: "with context",
			err:  NewConfigurationError("Open", ErrInvalidConfig).WithContext(map[string]any{"path": "x.yaml"}),
			want: "termid: Open (configuration): invalid configuration [context: map[path:x.yaml]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("Catalog.Resolve", registry.ErrNotFound))

	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Op: "Catalog.Resolve"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Op: "Open"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindConfiguration}))
	assert.True(t, errors.Is(err, registry.ErrNotFound))

	var terr *Error
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, KindNotFound, terr.Kind)
	assert.False(t, terr.Is(nil))
}

func TestNewBindingErrorClassifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{
			name: "ambiguous wins",
			err: &binding.ValidationError{Violations: []error{
				fmt.Errorf("%w: x", binding.ErrMalformedBinding),
				fmt.Errorf("%w: y", binding.ErrAmbiguousAlias),
			}},
			kind: KindAmbiguousAlias,
		},
		{name: "registry ambiguity", err: registry.ErrAmbiguousAlias, kind: KindAmbiguousAlias},
		{name: "cross kind", err: binding.ErrCrossKind, kind: KindCrossKind},
		{name: "malformed", err: binding.ErrMalformedBinding, kind: KindMalformedBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBindingError("Open", tt.err)
			assert.Equal(t, tt.kind, err.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.ErrorIs(t, NewBindingError("Open", registry.ErrAmbiguousAlias), ErrAmbiguousAlias)
}

func TestAmbiguousAliasIsOneSentinel(t *testing.T) {
	assert.Same(t, component.ErrAmbiguousAlias, ErrAmbiguousAlias)
	assert.Same(t, component.ErrAmbiguousAlias, binding.ErrAmbiguousAlias)
	assert.Same(t, component.ErrAmbiguousAlias, registry.ErrAmbiguousAlias)

	assert.ErrorIs(t, fmt.Errorf("load: %w", binding.ErrAmbiguousAlias), ErrAmbiguousAlias)
}

func TestWithContextCopies(t *testing.T) {
	base := NewMirrorError("Open", errors.New("down")).WithContext(map[string]any{"a": 1})
	derived := base.WithContext(map[string]any{"b": 2})

	assert.Len(t, base.Context, 1)
	assert.Len(t, derived.Context, 2)
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("boom") }

func TestCloseWithLog(t *testing.T) {
	var buf bytes.Buffer
	CloseWithLog(failingCloser{}, slog.New(slog.NewTextHandler(&buf, nil)), "mirror")
	assert.Contains(t, buf.String(), "close failed")
	assert.Contains(t, buf.String(), "resource=mirror")

	CloseWithLog(nil, nil, "nothing")
}
