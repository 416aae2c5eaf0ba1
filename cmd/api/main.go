package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/auth"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/puzzle"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/store"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}

	cfg := config.Load()

	// カウンター用ストアの選択。REDIS_URLが無い場合は開発用のメモリストアで動かす。
	var kv store.Store
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("エラー: Redisストアの初期化に失敗しました: %v", err)
		}
		defer redisStore.Close()
		kv = redisStore
	} else {
		log.Println("警告: REDIS_URL が未設定のためメモリストアを使用します。複数プロセスでは正しく動きません。")
		kv = store.NewMemoryStore()
	}

	deriver := puzzle.NewDeriver(cfg.EmojiSecret)
	signer := puzzle.NewSigner(cfg.EmojiSecret)
	ledger := store.NewLedger(kv)
	limiter := store.NewRateLimiter(kv, cfg.RateMax, cfg.RateWindow)

	// 本人確認はシークレットと照合先ドメインの両方が揃っている場合のみ有効にする。
	// どちらかが欠けたまま動かすと他ドメイン向けトークンを受け入れかねない。
	var verifier auth.TokenVerifier
	if cfg.QuickAuthJWTSecret != "" && cfg.AppDomain != "" {
		verifier = auth.NewQuickAuthVerifier(cfg.QuickAuthJWTSecret, cfg.AppDomain)
	}

	puzzleHandler := handlers.NewPuzzleHandler(deriver, signer, cfg.AttemptCap)
	guessHandler := handlers.NewGuessHandler(deriver, signer, ledger, limiter, cfg.AttemptCap)

	r := mux.NewRouter()
	r.Use(middleware.CORSHandler())

	// パズル取得は本人確認不要の公開エンドポイント
	r.HandleFunc("/api/puzzle", puzzleHandler.GetPuzzle).Methods("GET")

	// 推測の採点は本人確認の結果（認証済み or 匿名）で挙動が変わる
	withAuth := middleware.AuthMiddleware(verifier, cfg.BypassAuth)
	r.Handle("/api/guess", withAuth(http.HandlerFunc(guessHandler.PostGuess))).Methods("POST")

	log.Printf("Server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
