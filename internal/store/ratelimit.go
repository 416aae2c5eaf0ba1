package store

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RateLimiter は固定時間窓のリクエスト数制限です。ゲームの状態とは独立に、
// (ユーザーまたはIP, 時間窓) ごとのカウンターをストアのINCRで数えます。
type RateLimiter struct {
	store     Store
	max       int64
	windowSec int64
}

// NewRateLimiter は新しい RateLimiter インスタンスを作成します。
func NewRateLimiter(s Store, max int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:     s,
		max:       max,
		windowSec: int64(window / time.Second),
	}
}

// Allow は現在の時間窓でのリクエストを数え、上限以内なら true を返します。
// バケットキーは窓の番号を含むので、次の窓に入るとカウントは自然にリセットされます。
func (rl *RateLimiter) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	bucket := fmt.Sprintf("%s:%d", key, now.Unix()/rl.windowSec)
	n, err := rl.store.Incr(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("レート制限カウンターの加算に失敗しました: %w", err)
	}
	if n == 1 {
		// バケットの初回だけ期限を設定する。窓が過ぎたら勝手に消える。
		if err := rl.store.Expire(ctx, bucket, time.Duration(rl.windowSec)*time.Second); err != nil {
			log.Printf("RateLimiter Warning: バケットの期限設定に失敗しました: %v", err)
		}
	}
	return n <= rl.max, nil
}
