package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCheckpointGate(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOSTが設定されていません。Redis統合テストをスキップします。")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, host+":"+port, os.Getenv("REDIS_PASS"), 0)
	require.NoError(t, err)
	defer client.Close()

	gate := NewRedisCheckpointGate(client)
	gate.maxWait = 200 * time.Millisecond
	coupleID := "test-" + uuid.New().String()

	release, err := gate.Acquire(ctx, coupleID)
	require.NoError(t, err)

	t.Run("保持中は取得できない", func(t *testing.T) {
		_, err := gate.Acquire(ctx, coupleID)
		assert.Error(t, err)
	})

	release()

	t.Run("解放後は取得できる", func(t *testing.T) {
		r, err := gate.Acquire(ctx, coupleID)
		require.NoError(t, err)
		r()
	})

	t.Run("他人のロックは解放しない", func(t *testing.T) {
		r, err := gate.Acquire(ctx, coupleID)
		require.NoError(t, err)
		key := checkpointLockPrefix + coupleID
		require.NoError(t, client.Set(ctx, key, "someone-else", time.Second).Err())

		r()
		val, err := client.Get(ctx, key).Result()
		require.NoError(t, err)
		assert.Equal(t, "someone-else", val)
		client.Del(ctx, key)
	})
}
