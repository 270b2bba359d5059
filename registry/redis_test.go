package registry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgraph/termid/component"
)

// setupTestMirror creates a miniredis instance and returns a connected RedisMirror.
func setupTestMirror(t *testing.T) (*RedisMirror, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	mirror, err := NewRedisMirror(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = mirror.Close()
		mr.Close()
	})

	return mirror, mr
}

func TestNewRedisMirror(t *testing.T) {
	t.Run("bad url", func(t *testing.T) {
		_, err := NewRedisMirror(RedisOptions{URL: "://nope"})
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisMirror(RedisOptions{
			URL:            fmt.Sprintf("redis://%s", addr),
			ConnectTimeout: 200 * time.Millisecond,
		})
		assert.Error(t, err)
	})
}

func TestRedisMirrorPublishResolve(t *testing.T) {
	ctx := context.Background()
	mirror, mr := setupTestMirror(t)

	english := component.MustConcept("English Language", englishA, englishB, englishC)
	require.NoError(t, mirror.Publish(ctx, Record{NID: 7, Ref: english}))

	for _, u := range []uuid.UUID{englishA, englishB, englishC} {
		rec, err := mirror.Resolve(ctx, component.Key{Kind: component.KindConcept, UUID: u})
		require.NoError(t, err)
		assert.Equal(t, NID(7), rec.NID)
		assert.Equal(t, english.UUIDs(), rec.Ref.UUIDs())
		assert.Equal(t, component.KindConcept, rec.Ref.Kind())
	}

	_, err := mirror.Resolve(ctx, component.Key{Kind: component.KindPattern, UUID: englishA})
	assert.ErrorIs(t, err, ErrNotFound)

	fields, err := mr.HKeys("termid:concept")
	require.NoError(t, err)
	assert.Len(t, fields, 3)
	assert.False(t, mr.Exists("termid:pattern"))
}

func TestRedisMirrorList(t *testing.T) {
	ctx := context.Background()
	mirror, _ := setupTestMirror(t)

	require.NoError(t, mirror.Publish(ctx, Record{NID: 2, Ref: component.MustConcept("English Language", englishA, englishB)}))
	require.NoError(t, mirror.Publish(ctx, Record{NID: 1, Ref: component.MustPattern("US Dialect Pattern", usDialect)}))

	records, err := mirror.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, NID(1), records[0].NID)
	assert.Equal(t, component.KindPattern, records[0].Ref.Kind())
	assert.Equal(t, NID(2), records[1].NID)
}

func TestRedisMirrorRejectsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	mirror, mr := setupTestMirror(t)

	mr.HSet("termid:pattern", usDialect.String(), `{"nid":1,"component":{"kind":"concept","label":"x","uuids":["`+usDialect.String()+`"]}}`)

	rec, err := mirror.Resolve(ctx, component.Key{Kind: component.KindPattern, UUID: usDialect})
	require.NoError(t, err)
	assert.Equal(t, component.KindConcept, rec.Ref.Kind(), "records carry their own kind")

	mr.HSet("termid:pattern", englishA.String(), `{"nid":0}`)
	_, err = mirror.List(ctx)
	assert.ErrorIs(t, err, ErrInvalidComponent)
}

func TestRegistryRoundTripThroughRedis(t *testing.T) {
	ctx := context.Background()
	mirror, _ := setupTestMirror(t)

	src := New(WithLogger(quietLogger()))
	_, err := src.RegisterConcept(component.MustConcept("English Language", englishA, englishB, englishC))
	require.NoError(t, err)
	_, err = src.RegisterPattern(component.MustPattern("US Dialect Pattern", usDialect))
	require.NoError(t, err)
	require.NoError(t, src.Sync(ctx, mirror))

	dst := New(WithLogger(quietLogger()))
	n, err := dst.Hydrate(ctx, mirror)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.Entries()[0].NID, dst.Entries()[0].NID)

	p, ok := dst.Pattern(usDialect)
	require.True(t, ok)
	assert.Equal(t, "US Dialect Pattern", p.Label())
}
