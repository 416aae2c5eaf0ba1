package auth

import (
	"fmt"
	"log"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Identity は本人確認の結果です。認証済み (Identified) か匿名 (Anonymous) の
// 2択しかなく、ハンドラー側は型スイッチで漏れなく分岐します。
// nil チェックで済ませず必ずこの型で持ち回ること。
type Identity interface {
	isIdentity()
}

// Identified は検証に成功した数値ユーザーID (fid) を持ちます。
type Identified struct {
	FID int64
}

func (Identified) isIdentity() {}

// Anonymous は本人確認なしのプレイです。連勝記録と挑戦回数の永続化はありません。
type Anonymous struct{}

func (Anonymous) isIdentity() {}

// TokenVerifier は外部の本人確認トークンを検証してfidを返すサービスの抽象です。
// テストではフェイク実装に差し替えます。
type TokenVerifier interface {
	VerifyToken(tokenString string) (int64, error)
}

// QuickAuthVerifier はHMAC署名されたクイック認証JWTを検証する実装です。
// トークンの発行自体は外部サービスの仕事で、ここでは署名・ドメイン・subの検証だけを行います。
type QuickAuthVerifier struct {
	secret []byte
	domain string // audクレームと一致すべき公開ドメイン（スキーム・パスなし）
}

// NewQuickAuthVerifier は新しい QuickAuthVerifier インスタンスを作成します。
func NewQuickAuthVerifier(secret, domain string) *QuickAuthVerifier {
	return &QuickAuthVerifier{secret: []byte(secret), domain: domain}
}

// VerifyToken はJWTを検証し、subクレームの数値ユーザーID (fid) を返します。
func (v *QuickAuthVerifier) VerifyToken(tokenString string) (int64, error) {
	if len(v.secret) == 0 {
		return 0, fmt.Errorf("本人確認用のシークレットが設定されていません")
	}
	// 照合先ドメインが無いままaudチェックを省略すると、
	// 別ドメイン向けに発行されたトークンまで受け入れてしまう。必ず拒否する。
	if v.domain == "" {
		return 0, fmt.Errorf("照合する公開ドメインが設定されていません")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// アルゴリズムがHMACであることを確認（alg none 攻撃対策）
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("想定外の署名アルゴリズムです: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithAudience(v.domain))
	if err != nil {
		return 0, fmt.Errorf("JWTの検証に失敗しました: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("無効なトークンです")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("トークンのクレームを読み取れません")
	}

	fid, err := fidFromClaims(claims)
	if err != nil {
		log.Printf("QuickAuthVerifier Error: subクレームが不正です: %v", err)
		return 0, err
	}
	return fid, nil
}

// fidFromClaims はsubクレームをfidに変換します。外部サービスによって
// 文字列で入る場合と数値で入る場合の両方があります。
func fidFromClaims(claims jwt.MapClaims) (int64, error) {
	switch sub := claims["sub"].(type) {
	case string:
		fid, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("subが数値ではありません (%q): %w", sub, err)
		}
		return fid, nil
	case float64:
		return int64(sub), nil
	default:
		return 0, fmt.Errorf("subクレームがありません、または型が不正です: %v", claims["sub"])
	}
}
