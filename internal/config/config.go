package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定をまとめた構造体です。すべて環境変数から読み込みます。
type Config struct {
	Port               string        // リッスンするポート
	EmojiSecret        string        // 正解導出とトークン署名に使うHMACキー
	AttemptCap         int64         // 1日・1ユーザーあたりの採点つき挑戦回数の上限
	RateMax            int64         // 時間窓あたりのリクエスト数上限
	RateWindow         time.Duration // レート制限の固定時間窓
	RedisURL           string        // 空の場合はメモリストアにフォールバック（開発用）
	AppDomain          string        // 本人確認JWTのaudと照合する公開ドメイン
	QuickAuthJWTSecret string        // 本人確認JWTのHMACシークレット。空なら全員匿名扱い。
	BypassAuth         bool          // テスト用: 本人確認をバイパスする
}

// Load は環境変数から設定を読み込みます。未設定の項目にはデフォルト値を使います。
func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		EmojiSecret:        getEnv("EMOJI_SECRET", "dev-secret"),
		AttemptCap:         getEnvInt("ATTEMPT_CAP", 5),
		RateMax:            getEnvInt("RATE_MAX", 30),
		RateWindow:         time.Duration(getEnvInt("RATE_WINDOW_SEC", 60)) * time.Second,
		RedisURL:           os.Getenv("REDIS_URL"),
		AppDomain:          os.Getenv("APP_DOMAIN"),
		QuickAuthJWTSecret: os.Getenv("QUICKAUTH_JWT_SECRET"),
		BypassAuth:         os.Getenv("BYPASS_AUTH") == "true",
	}

	if cfg.EmojiSecret == "dev-secret" {
		log.Println("警告: EMOJI_SECRET が未設定のためデフォルト値を使用しています。本番では必ず設定してください。")
	}
	if cfg.QuickAuthJWTSecret == "" {
		log.Println("Config Info: QUICKAUTH_JWT_SECRET が未設定のため、すべてのリクエストを匿名として扱います。")
	} else if cfg.AppDomain == "" {
		log.Println("警告: QUICKAUTH_JWT_SECRET は設定されていますが APP_DOMAIN が未設定です。本人確認は無効になり、すべてのリクエストを匿名として扱います。")
	}
	return cfg
}

// getEnv は環境変数を読み、未設定ならデフォルト値を返します。
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt は整数の環境変数を読みます。パースできない値は警告してデフォルトにします。
func getEnvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("警告: %s の値 %q が不正です。デフォルト値 %d を使用します。", key, v, fallback)
		return fallback
	}
	return n
}
