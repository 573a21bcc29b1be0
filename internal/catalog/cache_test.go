package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return []Product{{ID: 1, GenericName: "Paracetamol", Quantity: 5}}, nil
	}

	key, err := cache.BuildKey(ctx, keySearch("para")...)
	require.NoError(t, err)

	var first []Product
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.Len(t, first, 1)
	require.Equal(t, 1, calls)

	var second []Product
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "second fetch should hit the cache")
}

func TestCacheBumpChangesKey(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keySearch("para")...)
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keySearch("para")...)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestCacheFetchJSONLoaderError(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	wantErr := errors.New("upstream down")
	var dest []Product
	err := cache.FetchJSON(ctx, "catalog:search:x:1", &dest, func(context.Context) (interface{}, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestNilCachePassThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	var dest []Product
	err := cache.FetchJSON(ctx, "ignored", &dest, func(context.Context) (interface{}, error) {
		return []Product{{ID: 2}}, nil
	})
	require.NoError(t, err)
	require.Len(t, dest, 1)
	require.NoError(t, cache.Bump(ctx))
}
