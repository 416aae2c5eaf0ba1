package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore は go-redis クライアントを使った Store 実装です。
// INCR / GET / SET EX / EXPIRE のみを使い、アトミック性はRedisに任せます。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore はRedis接続URL（redis://...）から RedisStore を作成します。
// 起動時にPingして接続を確認します。
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URLのパースに失敗しました: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("RedisStore Error: Pingに失敗しました: %v", err)
		return nil, fmt.Errorf("Redisへの接続に失敗しました: %w", err)
	}

	log.Printf("RedisStore: %s に接続しました。", opts.Addr)
	return &RedisStore{client: client}, nil
}

// Incr はキーの整数値をアトミックに+1して新しい値を返します。
func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("INCR %s に失敗しました: %w", key, err)
	}
	return n, nil
}

// Get はキーの値を返します。キーが無い場合は ErrNotFound を返します。
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("GET %s に失敗しました: %w", key, err)
	}
	return v, nil
}

// SetEx は値を有効期限付きで設定します。
func (r *RedisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("SET %s に失敗しました: %w", key, err)
	}
	return nil
}

// Expire は既存キーに有効期限を設定します。
func (r *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("EXPIRE %s に失敗しました: %w", key, err)
	}
	return nil
}

// Close はRedis接続を閉じます。
func (r *RedisStore) Close() error {
	return r.client.Close()
}
