package puzzle

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Signer は日付と正解の3桁を結びつける検証トークンを発行・検証するサービスです。
// サーバーは当日の正解をどこにも保存しないため、このトークンで改ざんを防ぎます。
type Signer struct {
	secret []byte
}

// NewSigner は新しい Signer インスタンスを作成します。
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// SignToken は "{day}|{a}{b}{c}" のHMAC-SHA256をURLセーフなbase64で返します。
// 日付がメッセージに含まれるので、別の日のトークンは（桁が偶然同じでも）検証に通りません。
func (s *Signer) SignToken(day string, a, b, c int) string {
	msg := fmt.Sprintf("%s|%d%d%d", day, a, b, c)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(msg))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyToken はクライアントから送られたトークンを当日の正解で再計算して照合します。
// タイミング攻撃対策のため hmac.Equal（定数時間比較）を使います。
func (s *Signer) VerifyToken(token, day string, a, b, c int) bool {
	expected := s.SignToken(day, a, b, c)
	return hmac.Equal([]byte(expected), []byte(token))
}
