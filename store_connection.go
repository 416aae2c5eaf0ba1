package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv" // .envファイルを読み込むため

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/store"
)

// カウンター用ストア（Redis）への接続確認ツールです。
// デプロイ前に REDIS_URL が正しいかどうかだけをさっと確かめるために使います。
func main() {
	// .envファイルを読み込む (開発環境の場合)
	err := godotenv.Load()
	if err != nil {
		log.Printf("warning: Error loading .env file: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("エラー: REDIS_URL 環境変数が設定されていません。")
	}

	fmt.Println("テスト開始: ストア接続を試行中...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := store.NewRedisStore(ctx, redisURL)
	if err != nil {
		log.Fatalf("エラー: ストアへの接続に失敗しました。接続情報やネットワークを確認してください: %v", err)
	}
	defer kv.Close()

	fmt.Println("成功: ストアに正常に接続し、Pingが成功しました！")

	// テストとして簡単な操作を実行してみる (任意)
	n, err := kv.Incr(ctx, "el:connection-check")
	if err != nil {
		log.Printf("警告: INCR の実行に失敗しました: %v", err)
	} else {
		fmt.Printf("接続確認カウンター: %d\n", n)
	}
	if err := kv.Expire(ctx, "el:connection-check", time.Hour); err != nil {
		log.Printf("警告: EXPIRE の実行に失敗しました: %v", err)
	}
}
