//go:build integration

package integration_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/adapter/nasa"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisTileCache verifies that a tile fetched once is served from redis
// by a second, independent cache client.
func TestRedisTileCache(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	addr := startRedis(ctx, t)

	var hits atomic.Int32
	gibs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer gibs.Close()

	metrics := observability.NewMetricsForTesting()
	req := nasa.NewRequester(5*time.Second, 50, slog.Default(), metrics)
	newTiles := func() (*nasa.CachedTiles, *redis.Client) {
		client := redis.NewClient(&redis.Options{Addr: addr})
		cache := nasa.NewRedisCache(client, time.Minute)
		require.NoError(t, cache.CheckReadiness(ctx))
		return nasa.NewCachedTiles(nasa.NewGibsClient(req, gibs.URL, "test-key"), cache, slog.Default(), metrics), client
	}

	path := "MODIS_Terra_CorrectedReflectance_TrueColor/2025-08-01/250m/3/2/5.jpg"

	first, c1 := newTiles()
	defer c1.Close()
	tile, err := first.ProxyPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, tile.Data)

	second, c2 := newTiles()
	defer c2.Close()
	cached, err := second.ProxyPath(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, tile, cached)
	assert.Equal(t, int32(1), hits.Load())

	ttl, err := c2.TTL(ctx, "gibs:tile:MODIS_Terra_CorrectedReflectance_TrueColor/default/2025-08-01/250m/3/2/5.jpg").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
