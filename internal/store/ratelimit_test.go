package store

import (
	"context"
	"testing"
	"time"
)

// TestRateLimiter_FixedWindow は固定時間窓での制限をテストします。
// max=2, window=60s のとき、同じ窓の3回目は拒否され、次の窓では再び通ること。
func TestRateLimiter_FixedWindow(t *testing.T) {
	rl := NewRateLimiter(NewMemoryStore(), 2, 60*time.Second)
	ctx := context.Background()

	// 窓の境界をまたがないよう、窓の先頭に揃えた時刻を使う
	now := time.Unix(1736899200, 0) // 60の倍数

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "rl:guess:123", now.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !ok {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 同じ窓の3回目は拒否
	ok, err := rl.Allow(ctx, "rl:guess:123", now.Add(2*time.Second))
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Error("Third request in the same window should be rejected")
	}

	// 次の窓では再び許可
	ok, err = rl.Allow(ctx, "rl:guess:123", now.Add(60*time.Second))
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if !ok {
		t.Error("Request in the next window should be allowed")
	}
}

// TestRateLimiter_PerKey はキーごとにカウンターが独立していることをテストします。
func TestRateLimiter_PerKey(t *testing.T) {
	rl := NewRateLimiter(NewMemoryStore(), 1, 60*time.Second)
	ctx := context.Background()
	now := time.Unix(1736899200, 0)

	ok, err := rl.Allow(ctx, "rl:guess:123", now)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if !ok {
		t.Error("First request for key A should be allowed")
	}

	// キーAは上限到達、キーBはまだ通る
	ok, err = rl.Allow(ctx, "rl:guess:123", now)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Error("Second request for key A should be rejected")
	}
	ok, err = rl.Allow(ctx, "rl:guess:ip:10.0.0.1", now)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if !ok {
		t.Error("First request for key B should be allowed")
	}
}
