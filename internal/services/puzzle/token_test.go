package puzzle

import "testing"

// TestSignToken_Deterministic は同じ入力から常に同じトークンが生成されることをテストします。
func TestSignToken_Deterministic(t *testing.T) {
	s := NewSigner("test-secret")

	first := s.SignToken("2025-01-15", 3, 7, 2)
	second := s.SignToken("2025-01-15", 3, 7, 2)
	if first != second {
		t.Errorf("Expected identical tokens, got %q and %q", first, second)
	}
}

// TestSignToken_DiffersByInput は日付または桁が1つでも違えばトークンが変わることをテストします。
func TestSignToken_DiffersByInput(t *testing.T) {
	s := NewSigner("test-secret")
	base := s.SignToken("2025-01-15", 3, 7, 2)

	cases := []struct {
		name  string
		token string
	}{
		{"different day", s.SignToken("2025-01-16", 3, 7, 2)},
		{"different a", s.SignToken("2025-01-15", 4, 7, 2)},
		{"different b", s.SignToken("2025-01-15", 3, 8, 2)},
		{"different c", s.SignToken("2025-01-15", 3, 7, 5)},
		{"different secret", NewSigner("other-secret").SignToken("2025-01-15", 3, 7, 2)},
	}
	for _, c := range cases {
		if c.token == base {
			t.Errorf("%s: expected a different token, got the same one", c.name)
		}
	}
}

// TestVerifyToken は正しいトークンだけが検証に通ることをテストします。
func TestVerifyToken(t *testing.T) {
	s := NewSigner("test-secret")
	token := s.SignToken("2025-01-15", 3, 7, 2)

	if !s.VerifyToken(token, "2025-01-15", 3, 7, 2) {
		t.Error("Expected valid token to verify")
	}
	// 別の日のトークンは（桁が同じでも）通らないこと
	if s.VerifyToken(token, "2025-01-16", 3, 7, 2) {
		t.Error("Expected token for another day to fail verification")
	}
	if s.VerifyToken("garbage", "2025-01-15", 3, 7, 2) {
		t.Error("Expected garbage token to fail verification")
	}
	if s.VerifyToken("", "2025-01-15", 3, 7, 2) {
		t.Error("Expected empty token to fail verification")
	}
}
