package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
)

// 保持期間。パズルの状態は2日分あれば足り、連勝記録だけ長く持ちます。
const (
	AttemptTTL = 48 * time.Hour
	StreakTTL  = 90 * 24 * time.Hour
)

// Ledger はユーザーごとの挑戦回数・勝利フラグ・連勝記録を管理するサービスです。
// すべて外部ストアのアトミックなプリミティブ経由で更新し、
// プロセス内にカウンターを持つことはありません。
type Ledger struct {
	store Store
}

// NewLedger は新しい Ledger インスタンスを作成します。
func NewLedger(s Store) *Ledger {
	return &Ledger{store: s}
}

func attemptsKey(day string, fid int64) string {
	return fmt.Sprintf("el:attempts:%s:%d", day, fid)
}

func winKey(day string, fid int64) string {
	return fmt.Sprintf("el:win:%s:%d", day, fid)
}

func streakKey(fid int64) string {
	return fmt.Sprintf("el:streak:%d", fid)
}

// GetAttempts はその日の挑戦回数を返します。未挑戦なら0です。
func (l *Ledger) GetAttempts(ctx context.Context, day string, fid int64) (int64, error) {
	v, err := l.store.Get(ctx, attemptsKey(day, fid))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("挑戦回数の取得に失敗しました: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("挑戦回数の値が不正です (%q): %w", v, err)
	}
	return n, nil
}

// IncrAttempts は挑戦回数をアトミックに+1して新しい値を返します。
// 同時リクエストが重なっても数え漏れ・二重加算が起きないよう、
// ストアのINCRをそのまま使います（アプリ側でのread-modify-writeは禁止）。
func (l *Ledger) IncrAttempts(ctx context.Context, day string, fid int64) (int64, error) {
	k := attemptsKey(day, fid)
	n, err := l.store.Incr(ctx, k)
	if err != nil {
		return 0, fmt.Errorf("挑戦回数の加算に失敗しました: %w", err)
	}
	if err := l.store.Expire(ctx, k, AttemptTTL); err != nil {
		// 期限設定の失敗は致命的ではないがログには残す
		log.Printf("Ledger Warning: 挑戦回数キーの期限設定に失敗しました: %v", err)
	}
	return n, nil
}

// MarkWin はその日の勝利フラグを記録します。何回呼んでも結果は同じです（冪等）。
func (l *Ledger) MarkWin(ctx context.Context, day string, fid int64) error {
	if err := l.store.SetEx(ctx, winKey(day, fid), "1", AttemptTTL); err != nil {
		return fmt.Errorf("勝利フラグの記録に失敗しました: %w", err)
	}
	return nil
}

// HasWon はその日すでに勝利済みかどうかを返します。
func (l *Ledger) HasWon(ctx context.Context, day string, fid int64) (bool, error) {
	_, err := l.store.Get(ctx, winKey(day, fid))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("勝利フラグの取得に失敗しました: %w", err)
	}
	return true, nil
}

// streakRecord は連勝記録のストア上の表現です。
type streakRecord struct {
	LastDay string `json:"lastDay"`
	Streak  int64  `json:"streak"`
}

// GetStreak は現在の連勝記録を返します。記録が無ければゼロ値を返します。
func (l *Ledger) GetStreak(ctx context.Context, fid int64) (lastDay string, streak int64, err error) {
	v, err := l.store.Get(ctx, streakKey(fid))
	if errors.Is(err, ErrNotFound) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("連勝記録の取得に失敗しました: %w", err)
	}
	var rec streakRecord
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		return "", 0, fmt.Errorf("連勝記録のパースに失敗しました: %w", err)
	}
	return rec.LastDay, rec.Streak, nil
}

// BumpStreak は勝利日を記録して新しい連勝数を返します。
// 前回の勝利日のちょうど翌日に勝った場合のみ+1、それ以外は1にリセットします。
// read-modify-write ですがキーがユーザー単位なので、競合しても影響は
// そのユーザー自身の連勝記録に閉じます（許容済みの緩和）。
func (l *Ledger) BumpStreak(ctx context.Context, fid int64, day string) (int64, error) {
	lastDay, prev, err := l.GetStreak(ctx, fid)
	if err != nil {
		return 0, err
	}

	var streak int64 = 1
	if lastDay != "" {
		prevDate, err := time.Parse("2006-01-02", lastDay)
		if err != nil {
			log.Printf("Ledger Warning: 保存されていた勝利日が不正です (%q): %v", lastDay, err)
		} else if prevDate.AddDate(0, 0, 1).Format("2006-01-02") == day {
			streak = prev + 1
		}
	}

	raw, err := json.Marshal(streakRecord{LastDay: day, Streak: streak})
	if err != nil {
		return 0, fmt.Errorf("連勝記録のエンコードに失敗しました: %w", err)
	}
	if err := l.store.SetEx(ctx, streakKey(fid), string(raw), StreakTTL); err != nil {
		return 0, fmt.Errorf("連勝記録の保存に失敗しました: %w", err)
	}
	return streak, nil
}
