package puzzle

import (
	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/models"
)

// EquationsFor は正解の3桁から方程式セットを組み立てます。
// terms の値は 0=A, 1=B, 2=C のスロット参照で、クライアントにもこの形で渡します
// （ターゲット値は見えますが桁そのものは見えません）。
func EquationsFor(a, b, c int, hard bool) []models.Equation {
	if !hard {
		// 通常モード: 加算のみの3本
		return []models.Equation{
			{Terms: []int{0, 0, 2}, Result: 2*a + c},
			{Terms: []int{0, 1}, Result: a + b},
			{Terms: []int{1, 2}, Result: b + c},
		}
	}
	// ハードモード: 4本目に乗算のヒントを追加。演算子が混ざるので op を明示する。
	return []models.Equation{
		{Terms: []int{0, 2, 2}, Ops: []string{"+", "+"}, Result: a + c + c},
		{Terms: []int{0, 1}, Ops: []string{"+"}, Result: a + b},
		{Terms: []int{1, 2}, Ops: []string{"+"}, Result: b + c},
		{Terms: []int{1, 0}, Ops: []string{"×"}, Result: b * a},
	}
}

// evalEquation は推測の3桁を方程式に代入して試行値を計算します。
// 演算は左から右へ順に適用します（通常の演算子優先順位は使いません。
// ヒントの意味が変わってしまうので「修正」しないこと）。
func evalEquation(eq models.Equation, ga, gb, gc int) int {
	v := termValue(eq.Terms[0], ga, gb, gc)
	for i := 1; i < len(eq.Terms); i++ {
		op := "+"
		if eq.Ops != nil {
			op = eq.Ops[i-1]
		}
		val := termValue(eq.Terms[i], ga, gb, gc)
		if op == "×" {
			v = v * val
		} else {
			v = v + val
		}
	}
	return v
}

// termValue はスロット参照 (0=A, 1=B, 2=C) を推測の値に変換します。
func termValue(t, ga, gb, gc int) int {
	switch t {
	case 0:
		return ga
	case 1:
		return gb
	default:
		return gc
	}
}

// HintsFor は方程式ごとに推測の試行値とターゲットを比較し、ヒントコードを返します。
// 返り値の順序は equations の順序と一致します。同じ方程式セットに対しては
// 何回目の挑戦でも同じ計算になるので、ヒントの意味は日内で安定します。
func HintsFor(guess [3]int, equations []models.Equation) []models.Hint {
	hints := make([]models.Hint, 0, len(equations))
	for _, eq := range equations {
		trial := evalEquation(eq, guess[0], guess[1], guess[2])
		switch {
		case trial == eq.Result:
			hints = append(hints, models.HintMatch)
		case trial < eq.Result:
			hints = append(hints, models.HintUp)
		default:
			hints = append(hints, models.HintDown)
		}
	}
	return hints
}

// ValidGuess は推測が「1〜9の互いに異なる3桁」であることを検証します。
func ValidGuess(guess []int) bool {
	if len(guess) != 3 {
		return false
	}
	seen := map[int]bool{}
	for _, n := range guess {
		if n < 1 || n > 9 || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
