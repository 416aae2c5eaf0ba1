package puzzle

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/EMOLOCK-backend/internal/models"
)

// EmojiPalette は正解表示に使う絵文字の固定パレットです。
// 並び順を変えると過去の日付の絵文字が変わってしまうため、変更禁止です。
var EmojiPalette = []string{
	"🍇", "🍋", "🍒", "🍉", "🍊", "🍎", "🥝", "🍑", "🍍", "🍓", "🥥",
	"🍐", "🍌", "🥕", "🌶️", "🥨", "🧊", "🥚", "🧀", "🍔", "🥟", "🍪",
}

// maxRehash はダイジェストを再ハッシュして値を探し続ける回数の上限です。
// 9種類の値を32バイトから選ぶので実際にここへ到達することはまずありませんが、
// 無限ループだけは絶対に避けるための安全弁です。
const maxRehash = 16

// Deriver は日付文字列から正解を決定論的に導出するサービスです。
type Deriver struct {
	secret []byte
}

// NewDeriver は新しい Deriver インスタンスを作成します。
func NewDeriver(secret string) *Deriver {
	return &Deriver{secret: []byte(secret)}
}

// DayUTC は現在のUTC日付を YYYY-MM-DD 形式で返します。
func DayUTC(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// IsHardDay はハードモードの日かどうかを判定します。毎週水曜日（UTC）がハードです。
func IsHardDay(now time.Time) bool {
	return now.UTC().Weekday() == time.Wednesday
}

// hmacDigest は HMAC-SHA256(secret, input) を計算します。
func (d *Deriver) hmacDigest(input []byte) []byte {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write(input)
	return mac.Sum(nil)
}

// DeriveSolution は日付文字列から1〜9の互いに異なる3桁と絵文字3つを導出します。
// 同じ (日付, シークレット) の組からは必ず同じ結果が返ります（乱数・I/Oなし）。
func (d *Deriver) DeriveSolution(day string) (models.Solution, error) {
	digest := d.hmacDigest([]byte(day))

	// ダイジェストの先頭から互いに異なる3桁（1〜9）を選ぶ
	digits, err := d.pickDistinct(digest, 9, 3, 1)
	if err != nil {
		return models.Solution{}, fmt.Errorf("桁の導出に失敗しました: %w", err)
	}

	// 絵文字はダイジェストの別のスライス（9バイト目以降）から選ぶ
	emojiIdx, err := d.pickDistinct(digest[8:], len(EmojiPalette), 3, 0)
	if err != nil {
		return models.Solution{}, fmt.Errorf("絵文字の導出に失敗しました: %w", err)
	}

	emojis := make([]string, 0, 3)
	for _, i := range emojiIdx {
		emojis = append(emojis, EmojiPalette[i])
	}

	return models.Solution{
		A:      digits[0],
		B:      digits[1],
		C:      digits[2],
		Emojis: emojis,
	}, nil
}

// pickDistinct はバイト列から「byte % base + min」で値を作り、重複をスキップしながら
// count 個集めます。スライスを使い切った場合は再ハッシュして続行します（防御的フォールバック）。
func (d *Deriver) pickDistinct(bytes []byte, base, count, min int) ([]int, error) {
	out := make([]int, 0, count)
	seen := make(map[int]bool)

	cur := bytes
	for rehash := 0; rehash <= maxRehash; rehash++ {
		for _, b := range cur {
			v := int(b)%base + min
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
			if len(out) == count {
				return out, nil
			}
		}
		// スライスが尽きた場合は前のバイト列をもう一度HMACして続きを作る
		cur = d.hmacDigest(cur)
	}

	// ここに来るのは base < count の設定ミスくらいのはず
	return nil, fmt.Errorf("再ハッシュ上限 (%d回) に達しても %d 個の値を選べませんでした", maxRehash, count)
}
