package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults は未設定の環境変数にデフォルト値が使われることをテストします。
func TestLoad_Defaults(t *testing.T) {
	// 他のテストや開発環境の値に影響されないようにクリアする
	for _, k := range []string{"PORT", "EMOJI_SECRET", "ATTEMPT_CAP", "RATE_MAX", "RATE_WINDOW_SEC"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.EmojiSecret != "dev-secret" {
		t.Errorf("Expected default secret, got %s", cfg.EmojiSecret)
	}
	if cfg.AttemptCap != 5 {
		t.Errorf("Expected default attempt cap 5, got %d", cfg.AttemptCap)
	}
	if cfg.RateMax != 30 {
		t.Errorf("Expected default rate max 30, got %d", cfg.RateMax)
	}
	if cfg.RateWindow != 60*time.Second {
		t.Errorf("Expected default rate window 60s, got %v", cfg.RateWindow)
	}
}

// TestLoad_FromEnv は環境変数の値が優先されることをテストします。
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EMOJI_SECRET", "prod-secret")
	t.Setenv("ATTEMPT_CAP", "3")
	t.Setenv("RATE_MAX", "10")
	t.Setenv("RATE_WINDOW_SEC", "30")
	t.Setenv("BYPASS_AUTH", "true")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.EmojiSecret != "prod-secret" {
		t.Errorf("Expected prod-secret, got %s", cfg.EmojiSecret)
	}
	if cfg.AttemptCap != 3 {
		t.Errorf("Expected attempt cap 3, got %d", cfg.AttemptCap)
	}
	if cfg.RateMax != 10 {
		t.Errorf("Expected rate max 10, got %d", cfg.RateMax)
	}
	if cfg.RateWindow != 30*time.Second {
		t.Errorf("Expected rate window 30s, got %v", cfg.RateWindow)
	}
	if !cfg.BypassAuth {
		t.Error("Expected bypass auth to be enabled")
	}
}

// TestLoad_InvalidInt は不正な整数値がデフォルトにフォールバックすることをテストします。
func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("ATTEMPT_CAP", "not-a-number")
	t.Setenv("RATE_MAX", "-5")

	cfg := Load()
	if cfg.AttemptCap != 5 {
		t.Errorf("Expected fallback attempt cap 5, got %d", cfg.AttemptCap)
	}
	if cfg.RateMax != 30 {
		t.Errorf("Expected fallback rate max 30, got %d", cfg.RateMax)
	}
}
