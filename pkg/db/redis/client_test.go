package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yanote/pkg/db/redis"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("connects to running server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		port, err := strconv.Atoi(srv.Port())
		require.NoError(t, err)

		cfg := redis.DefaultConfig()
		cfg.Host = srv.Host()
		cfg.Port = port

		client, err := redis.NewClient(ctx, cfg)
		require.NoError(t, err)
		require.NotNil(t, client.RawClient())

		require.NoError(t, client.RawClient().Set(ctx, "k", "v", 0).Err())
		srv.CheckGet(t, "k", "v")

		assert.NoError(t, client.Close(ctx))
	})

	t.Run("fails when server is down", func(t *testing.T) {
		srv := miniredis.RunT(t)
		port, err := strconv.Atoi(srv.Port())
		require.NoError(t, err)
		host := srv.Host()
		srv.Close()

		client, err := redis.NewClient(ctx, &redis.Config{Host: host, Port: port, Timeout: 200 * time.Millisecond})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), redis.ErrConnect)
	})
}

func TestConfigAddress(t *testing.T) {
	cfg := redis.DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Address())
}
