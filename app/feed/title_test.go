package feed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"hyphen source", "Foo Corp profits surge - Reuters", "foocorpprofitssurge"},
		{"full-width paren source", "Foo Corp profits surge （共同通信）", "foocorpprofitssurge"},
		{"ascii paren source", "Foo Corp profits surge (Bloomberg)", "foocorpprofitssurge"},
		{"pipe source", "Foo Corp profits surge | Bloomberg", "foocorpprofitssurge"},
		{"full-width pipe", "トヨタ、過去最高益　通期見通し上方修正｜日本経済新聞", "トヨタ過去最高益通期見通し上方修正"},
		{"hyphenated word kept", "E-commerce boom - Nikkei Asia", "ecommerceboom"},
		{"brackets removed", "【速報】日経平均「急反発」", "速報日経平均急反発"},
		{"only source", "（ロイター）", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	titles := []string{
		"Foo Corp profits surge - Reuters",
		"Foo Corp profits surge （共同通信）",
		"【速報】日経平均「急反発」、半導体株に買い戻し - 日本経済新聞",
		"ＳＯＦＴＢＡＮＫ Group: Arm stake rises!?",
		"A - B - C",
		strings.Repeat("あいうえお", 20),
	}

	for _, title := range titles {
		once := NormalizeTitle(title)
		assert.Equal(t, once, NormalizeTitle(once), "title %q", title)
	}
}

func TestNormalizeTitleTruncates(t *testing.T) {
	key := NormalizeTitle(strings.Repeat("あ", 50))
	assert.Equal(t, 40, utf8.RuneCountInString(key))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "日本", Truncate("日本経済", 2))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}
