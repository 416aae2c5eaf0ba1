package puzzle

import (
	"testing"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/models"
)

// TestEquationsFor_Normal は通常モードの方程式セット（加算のみ3本）をテストします。
func TestEquationsFor_Normal(t *testing.T) {
	// 正解 (a,b,c) = (3,7,2)
	eqs := EquationsFor(3, 7, 2, false)
	if len(eqs) != 3 {
		t.Fatalf("Expected 3 equations, got %d", len(eqs))
	}

	// 2a+c=8, a+b=10, b+c=9
	expected := []int{8, 10, 9}
	for i, want := range expected {
		if eqs[i].Result != want {
			t.Errorf("Equation %d: expected target %d, got %d", i, want, eqs[i].Result)
		}
	}
}

// TestEquationsFor_Hard はハードモードの方程式セット（乗算入り4本）をテストします。
func TestEquationsFor_Hard(t *testing.T) {
	eqs := EquationsFor(3, 7, 2, true)
	if len(eqs) != 4 {
		t.Fatalf("Expected 4 equations, got %d", len(eqs))
	}

	// a+2c=7, a+b=10, b+c=9, b×a=21
	expected := []int{7, 10, 9, 21}
	for i, want := range expected {
		if eqs[i].Result != want {
			t.Errorf("Equation %d: expected target %d, got %d", i, want, eqs[i].Result)
		}
	}

	// ハードモードは演算子リストを必ず明示する（加算と乗算が混ざるため）
	for i, eq := range eqs {
		if len(eq.Ops) != len(eq.Terms)-1 {
			t.Errorf("Equation %d: expected %d ops, got %d", i, len(eq.Terms)-1, len(eq.Ops))
		}
	}
	if eqs[3].Ops[0] != "×" {
		t.Errorf("Expected equation 3 to be multiplicative, got op %q", eqs[3].Ops[0])
	}
}

// TestHintsFor_PartialMatch は正解 (3,7,2) に対する推測 (5,7,2) のヒントをテストします。
// 2·5+2=12>8→down, 5+7=12>10→down, 7+2=9=9→ok
func TestHintsFor_PartialMatch(t *testing.T) {
	eqs := EquationsFor(3, 7, 2, false)
	hints := HintsFor([3]int{5, 7, 2}, eqs)

	expected := []models.Hint{models.HintDown, models.HintDown, models.HintMatch}
	if len(hints) != len(expected) {
		t.Fatalf("Expected %d hints, got %d", len(expected), len(hints))
	}
	for i, want := range expected {
		if hints[i] != want {
			t.Errorf("Hint %d: expected %q, got %q", i, want, hints[i])
		}
	}
}

// TestHintsFor_CorrectGuess は正解そのものを推測した場合にすべて ok になることをテストします。
func TestHintsFor_CorrectGuess(t *testing.T) {
	for _, hard := range []bool{false, true} {
		eqs := EquationsFor(3, 7, 2, hard)
		hints := HintsFor([3]int{3, 7, 2}, eqs)
		for i, h := range hints {
			if h != models.HintMatch {
				t.Errorf("hard=%v: hint %d should be %q for the correct guess, got %q", hard, i, models.HintMatch, h)
			}
		}
	}
}

// TestHintsFor_BelowTarget は試行値がターゲットより小さい場合に up になることをテストします。
func TestHintsFor_BelowTarget(t *testing.T) {
	eqs := EquationsFor(3, 7, 2, false)
	// (1,2,3): 2·1+3=5<8→up, 1+2=3<10→up, 2+3=5<9→up
	hints := HintsFor([3]int{1, 2, 3}, eqs)
	for i, h := range hints {
		if h != models.HintUp {
			t.Errorf("Hint %d: expected %q, got %q", i, models.HintUp, h)
		}
	}
}

// TestHintsFor_LeftToRightEvaluation は乗算入りの方程式が
// 通常の演算子優先順位ではなく左から右へ評価されることをテストします。
func TestHintsFor_LeftToRightEvaluation(t *testing.T) {
	// 人工的な方程式: A + B × C を左から右に評価すると (A+B)×C
	eq := models.Equation{
		Terms:  []int{0, 1, 2},
		Ops:    []string{"+", "×"},
		Result: (2 + 3) * 4, // 左から右: (2+3)×4 = 20
	}
	hints := HintsFor([3]int{2, 3, 4}, []models.Equation{eq})
	if hints[0] != models.HintMatch {
		// 優先順位評価 (2+3×4=14) に「修正」されているとここで落ちる
		t.Errorf("Expected left-to-right evaluation to match, got %q", hints[0])
	}
}

// TestValidGuess は推測の形の検証をテストします。
func TestValidGuess(t *testing.T) {
	cases := []struct {
		name  string
		guess []int
		want  bool
	}{
		{"valid", []int{1, 5, 9}, true},
		{"too short", []int{1, 5}, false},
		{"too long", []int{1, 5, 9, 3}, false},
		{"duplicate", []int{1, 5, 5}, false},
		{"zero", []int{0, 5, 9}, false},
		{"too large", []int{1, 5, 10}, false},
		{"negative", []int{-1, 5, 9}, false},
		{"empty", nil, false},
	}
	for _, c := range cases {
		if got := ValidGuess(c.guess); got != c.want {
			t.Errorf("%s: ValidGuess(%v) = %v, want %v", c.name, c.guess, got, c.want)
		}
	}
}
