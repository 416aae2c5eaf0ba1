package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/auth"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/puzzle"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/store"
)

// GuessHandler は推測の採点フローを処理するハンドラーです。
// 検証（レート制限・トークン）→ カウンター更新 → 採点 の順序を必ず守ります。
// 検証より前にカウンターへ触れてはいけません。
type GuessHandler struct {
	deriver    *puzzle.Deriver
	signer     *puzzle.Signer
	ledger     *store.Ledger
	limiter    *store.RateLimiter
	attemptCap int64
}

// NewGuessHandler は新しい GuessHandler インスタンスを作成します。
func NewGuessHandler(deriver *puzzle.Deriver, signer *puzzle.Signer, ledger *store.Ledger, limiter *store.RateLimiter, attemptCap int64) *GuessHandler {
	return &GuessHandler{
		deriver:    deriver,
		signer:     signer,
		ledger:     ledger,
		limiter:    limiter,
		attemptCap: attemptCap,
	}
}

// PostGuess は推測を受け付けて採点するハンドラーです。
// POST /api/guess
func (h *GuessHandler) PostGuess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	identity := middleware.GetIdentityFromContext(ctx)

	// 1. レート制限（ゲームの状態を読む前に弾く）
	ok, err := h.limiter.Allow(ctx, rateLimitKey(identity, r), now)
	if err != nil {
		log.Printf("GuessHandler Error: レート制限の確認に失敗しました: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ストアが利用できません。しばらくしてから再試行してください")
		return
	}
	if !ok {
		writeJSONError(w, http.StatusTooManyRequests, "リクエストが多すぎます")
		return
	}

	// 2. リクエストボディの検証
	var req models.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "無効なリクエストボディです")
		return
	}
	if req.Token == "" || len(req.Guess) != 3 {
		writeJSONError(w, http.StatusBadRequest, "tokenと3桁のguessは必須です")
		return
	}

	// 3. 当日の正解をサーバー側で再導出してトークンを照合する
	//    （クライアントから渡された正解は決して信用しない）
	day := puzzle.DayUTC(now)
	hard := puzzle.IsHardDay(now)
	sol, err := h.deriver.DeriveSolution(day)
	if err != nil {
		log.Printf("GuessHandler Error: 正解の導出に失敗しました: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "パズルの検証に失敗しました")
		return
	}
	if !h.signer.VerifyToken(req.Token, day, sol.A, sol.B, sol.C) {
		// 署名不一致は「外れ」ではなく認証系の失敗として区別する
		writeJSONError(w, http.StatusUnauthorized, "無効なトークンです")
		return
	}

	// 4. 推測の形の検証（1〜9・重複なし）
	if !puzzle.ValidGuess(req.Guess) {
		writeJSONError(w, http.StatusBadRequest, "1〜9の互いに異なる3桁を指定してください")
		return
	}
	guess := [3]int{req.Guess[0], req.Guess[1], req.Guess[2]}
	equations := puzzle.EquationsFor(sol.A, sol.B, sol.C, hard)

	switch id := identity.(type) {
	case auth.Identified:
		h.scoreIdentified(w, r, day, sol, guess, equations, id.FID)
	case auth.Anonymous:
		h.scoreAnonymous(w, sol, guess, equations)
	default:
		// Identity は2種類しかない。ここに来たら実装ミス。
		log.Printf("GuessHandler Error: 未知のIdentity型です: %T", identity)
		writeJSONError(w, http.StatusInternalServerError, "内部エラー")
	}
}

// scoreIdentified は認証済みユーザーの推測を採点し、カウンターと連勝記録を更新します。
func (h *GuessHandler) scoreIdentified(w http.ResponseWriter, r *http.Request, day string, sol models.Solution, guess [3]int, equations []models.Equation, fid int64) {
	ctx := r.Context()

	used, err := h.ledger.GetAttempts(ctx, day, fid)
	if err != nil {
		log.Printf("GuessHandler Error: 挑戦回数の取得に失敗しました: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ストアが利用できません。しばらくしてから再試行してください")
		return
	}

	// 上限到達後もヒントの再計算だけは許す（カウンターは増やさず、常に不正解扱い）
	if used >= h.attemptCap {
		writeJSON(w, http.StatusOK, models.GuessResponse{
			OK:           true,
			Hints:        puzzle.HintsFor(guess, equations),
			Correct:      false,
			AttemptsUsed: used,
		})
		return
	}

	attemptsUsed, err := h.ledger.IncrAttempts(ctx, day, fid)
	if err != nil {
		log.Printf("GuessHandler Error: 挑戦回数の加算に失敗しました: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ストアが利用できません。しばらくしてから再試行してください")
		return
	}

	hints := puzzle.HintsFor(guess, equations)
	correct := guess == sol.Digits()

	if !correct {
		writeJSON(w, http.StatusOK, models.GuessResponse{
			OK:           true,
			Hints:        hints,
			Correct:      false,
			AttemptsUsed: attemptsUsed,
		})
		return
	}

	// 正解: 勝利フラグと連勝記録を更新する
	if err := h.ledger.MarkWin(ctx, day, fid); err != nil {
		log.Printf("GuessHandler Error: 勝利フラグの記録に失敗しました: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ストアが利用できません。しばらくしてから再試行してください")
		return
	}
	streak, err := h.ledger.BumpStreak(ctx, fid, day)
	if err != nil {
		log.Printf("GuessHandler Error: 連勝記録の更新に失敗しました: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ストアが利用できません。しばらくしてから再試行してください")
		return
	}

	log.Printf("GuessHandler Info: fid %d が %s のパズルを %d 回目で正解しました（連勝 %d）", fid, day, attemptsUsed, streak)
	writeJSON(w, http.StatusOK, models.GuessResponse{
		OK:           true,
		Hints:        hints,
		Correct:      true,
		AttemptsUsed: attemptsUsed,
		Streak:       &streak,
	})
}

// scoreAnonymous は匿名ユーザーの推測を採点します。
// カウンターも連勝記録も持たないため、ストアには一切書き込みません。
func (h *GuessHandler) scoreAnonymous(w http.ResponseWriter, sol models.Solution, guess [3]int, equations []models.Equation) {
	correct := guess == sol.Digits()
	resp := models.GuessResponse{
		OK:           true,
		Hints:        puzzle.HintsFor(guess, equations),
		Correct:      correct,
		AttemptsUsed: 1,
		Anonymous:    true,
	}
	if correct {
		// 匿名には連勝記録がないことを明示するため streak: 0 を返す
		var zero int64
		resp.Streak = &zero
	}
	writeJSON(w, http.StatusOK, resp)
}

// rateLimitKey はレート制限のキーを作ります。認証済みならfid、匿名ならIPで数えます。
func rateLimitKey(identity auth.Identity, r *http.Request) string {
	if id, ok := identity.(auth.Identified); ok {
		return fmt.Sprintf("rl:guess:%d", id.FID)
	}
	return "rl:guess:ip:" + clientIP(r)
}

// clientIP はX-Forwarded-Forの先頭、なければRemoteAddrからIPを取り出します。
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
