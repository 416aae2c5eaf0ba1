package models

// Solution は1日分の正解データ（秘密の3桁と表示用絵文字）を表す構造体です。
// サーバー側でのみ再計算され、クライアントには絶対に返しません。
type Solution struct {
	A      int      // 1桁目 (1〜9)
	B      int      // 2桁目 (1〜9)
	C      int      // 3桁目 (1〜9)
	Emojis []string // 表示用の絵文字3つ
}

// Digits は正解の3桁をスライスで返します。
func (s Solution) Digits() [3]int {
	return [3]int{s.A, s.B, s.C}
}

// Equation は秘密の桁への参照（terms）と演算子リスト、計算済みのターゲット値を持つ方程式です。
// terms の値は 0=A, 1=B, 2=C のスロット参照です。
type Equation struct {
	Terms  []int    `json:"terms"`
	Ops    []string `json:"op,omitempty"` // ハードモードのみ明示。省略時はすべて加算。
	Result int      `json:"result"`
}

// Hint は方程式ごとの三値フィードバックコードです。
type Hint string

const (
	// HintMatch は試行値がターゲットと一致したことを表します。
	HintMatch Hint = "ok"
	// HintUp は試行値がターゲットより小さい（もっと大きい数を試すべき）ことを表します。
	HintUp Hint = "up"
	// HintDown は試行値がターゲットより大きい（もっと小さい数を試すべき）ことを表します。
	HintDown Hint = "down"
)

// PuzzleResponse は GET /api/puzzle のレスポンス構造体です。
type PuzzleResponse struct {
	Day        string     `json:"day"`
	Emojis     []string   `json:"emojis"`
	Equations  []Equation `json:"equations"`
	Token      string     `json:"token"`
	AttemptCap int        `json:"attemptCap"`
	Hard       bool       `json:"hard"`
}

// GuessRequest は POST /api/guess のリクエストボディです。
type GuessRequest struct {
	Token string `json:"token"`
	Guess []int  `json:"guess"`
}

// GuessResponse は POST /api/guess の成功レスポンスです。
// Streak は勝利時かつ認証済みユーザーの場合のみ設定されます。
type GuessResponse struct {
	OK           bool   `json:"ok"`
	Hints        []Hint `json:"hints"`
	Correct      bool   `json:"correct"`
	AttemptsUsed int64  `json:"attemptsUsed"`
	Streak       *int64 `json:"streak,omitempty"`
	Anonymous    bool   `json:"anonymous,omitempty"`
}

// StreakRecord はユーザーごとの連勝記録です。ストアにJSONで保存されます。
type StreakRecord struct {
	LastDay string `json:"lastDay"`
	Streak  int64  `json:"streak"`
}
