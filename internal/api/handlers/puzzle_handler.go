package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/services/puzzle"
)

// PuzzleHandler は当日のパズル取得を処理するハンドラーです。
type PuzzleHandler struct {
	deriver    *puzzle.Deriver
	signer     *puzzle.Signer
	attemptCap int64
}

// NewPuzzleHandler は新しい PuzzleHandler インスタンスを作成します。
func NewPuzzleHandler(deriver *puzzle.Deriver, signer *puzzle.Signer, attemptCap int64) *PuzzleHandler {
	return &PuzzleHandler{
		deriver:    deriver,
		signer:     signer,
		attemptCap: attemptCap,
	}
}

// GetPuzzle は当日のパズルを返すハンドラーです。
// GET /api/puzzle
// 正解の桁そのものは絶対に返さず、方程式のターゲット値と署名済みトークンだけを返します。
func (h *PuzzleHandler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	day := puzzle.DayUTC(now)
	hard := puzzle.IsHardDay(now)

	sol, err := h.deriver.DeriveSolution(day)
	if err != nil {
		log.Printf("PuzzleHandler Error: 正解の導出に失敗しました: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "パズルの生成に失敗しました")
		return
	}

	equations := puzzle.EquationsFor(sol.A, sol.B, sol.C, hard)
	token := h.signer.SignToken(day, sol.A, sol.B, sol.C)

	writeJSON(w, http.StatusOK, models.PuzzleResponse{
		Day:        day,
		Emojis:     sol.Emojis,
		Equations:  equations,
		Token:      token,
		AttemptCap: int(h.attemptCap),
		Hard:       hard,
	})
}
