package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/auth"
)

// IdentityKey はリクエストコンテキストに Identity を格納するためのキーです。
type IdentityKey struct{}

// GetIdentityFromContext はコンテキストから本人確認の結果を取り出します。
// ミドルウェアを通っていないリクエストは匿名扱いです。
func GetIdentityFromContext(ctx context.Context) auth.Identity {
	if id, ok := ctx.Value(IdentityKey{}).(auth.Identity); ok {
		return id
	}
	return auth.Anonymous{}
}

// AuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 結果 (Identified または Anonymous) をコンテキストに設定するミドルウェアを返します。
// 本人確認の失敗でリクエストを拒否することはありません。匿名に降格して
// ゲーム自体は続行できるようにします（連勝記録などが付かないだけ）。
func AuthMiddleware(verifier auth.TokenVerifier, bypassAuth bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// テスト用: 環境変数で認証をバイパス可能にする
			if bypassAuth {
				// テスト用のランダムなユーザーIDを生成（毎回異なるユーザーとして扱う）
				testFID := int64(uuid.New().ID())
				log.Printf("AuthMiddleware: BYPASS_AUTH enabled, generated test fid: %d", testFID)
				ctx := context.WithValue(r.Context(), IdentityKey{}, auth.Identified{FID: testFID})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			identity := resolveIdentity(r, verifier)
			ctx := context.WithValue(r.Context(), IdentityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveIdentity はAuthorizationヘッダーから本人確認を試みます。
// ヘッダーが無い・形式が不正・検証失敗のいずれも Anonymous になります。
func resolveIdentity(r *http.Request, verifier auth.TokenVerifier) auth.Identity {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return auth.Anonymous{}
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		log.Printf("AuthMiddleware: Authorizationヘッダーの形式が不正です。匿名として扱います。")
		return auth.Anonymous{}
	}

	if verifier == nil {
		return auth.Anonymous{}
	}

	fid, err := verifier.VerifyToken(tokenString)
	if err != nil {
		log.Printf("AuthMiddleware: 本人確認に失敗しました。匿名として扱います: %v", err)
		return auth.Anonymous{}
	}
	return auth.Identified{FID: fid}
}
