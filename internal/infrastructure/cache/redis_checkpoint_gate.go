package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	checkpointLockPrefix = "couple:checkpoint-lock:"
	defaultLockTTL       = 5 * time.Second
	defaultLockWait      = 2 * time.Second
	lockPollInterval     = 25 * time.Millisecond
)

// 自分が取得したロックだけを削除する
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisCheckpointGate 複数インスタンス間でカップル単位の書き込みを直列化するロック
type RedisCheckpointGate struct {
	client  *redis.Client
	ttl     time.Duration
	maxWait time.Duration
}

// NewRedisCheckpointGate は新しいRedisCheckpointGateインスタンスを作成
func NewRedisCheckpointGate(client *redis.Client) *RedisCheckpointGate {
	return &RedisCheckpointGate{
		client:  client,
		ttl:     defaultLockTTL,
		maxWait: defaultLockWait,
	}
}

// Acquire SET NX PX でロックを取得する。maxWait 以内に取れなければエラー
func (g *RedisCheckpointGate) Acquire(ctx context.Context, coupleID string) (func(), error) {
	key := checkpointLockPrefix + coupleID
	token := uuid.New().String()
	deadline := time.Now().Add(g.maxWait)

	for {
		ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("Redisロックの取得に失敗 (%s): %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("Redisロックの待機がタイムアウト (%s)", key)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			log.Printf("⚠️ Redisロックの解放に失敗 (%s): %v", key, err)
		}
	}, nil
}
