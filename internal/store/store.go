package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound はキーが存在しない（または期限切れ）ことを表すエラーです。
var ErrNotFound = errors.New("store: キーが見つかりません")

// Store はカウンター保存に使うアトミックなキーバリューストアの抽象です。
// ゲームの正しさはこのストアのアトミック性（特に Incr）だけに依存しており、
// アプリケーション側で read-modify-write によるカウンター更新をしてはいけません。
type Store interface {
	// Incr はキーの整数値をアトミックに+1して新しい値を返します。キーが無ければ1になります。
	Incr(ctx context.Context, key string) (int64, error)
	// Get はキーの値を返します。存在しない場合は ErrNotFound を返します。
	Get(ctx context.Context, key string) (string, error)
	// SetEx は値を有効期限付きで設定します。
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Expire は既存キーに有効期限を設定します。
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// MemoryStore はプロセス内メモリで動く Store 実装です。
// Redisを用意しないローカル開発とテスト用。単一プロセスでしか正しく動かないため、
// 本番（水平スケールする環境）では必ずRedisを使ってください。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // ゼロ値は無期限
}

// NewMemoryStore は新しい MemoryStore インスタンスを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// live はロックを保持した状態で、期限切れでないエントリを返します。
func (m *MemoryStore) live(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Incr はキーの整数値をアトミックに+1します。
func (m *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	var expiresAt time.Time
	if e, ok := m.live(key); ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("キー %s の値が整数ではありません: %w", key, err)
		}
		n = parsed
		expiresAt = e.expiresAt // 既存の期限は引き継ぐ
	}
	n++

	m.entries[key] = memoryEntry{value: strconv.FormatInt(n, 10), expiresAt: expiresAt}
	return n, nil
}

// Get はキーの値を返します。
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.value, nil
}

// SetEx は値を有効期限付きで設定します。
func (m *MemoryStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Expire は既存キーに有効期限を設定します。キーが無い場合は何もしません。
func (m *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.live(key); ok {
		e.expiresAt = time.Now().Add(ttl)
		m.entries[key] = e
	}
	return nil
}
