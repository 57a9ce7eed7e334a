package analyzer

import (
	"strings"

	"github.com/lysyi3m/market-radar/app/feed"
	"github.com/lysyi3m/market-radar/app/watchlist"
)

const systemPrompt = `あなたはプロのトレーダー兼投資アナリストです。
日本株市場に精通しており、ニュースから瞬時に投資判断と最適な保有期間を判定できます。

必ず以下のJSON形式のみで回答してください。それ以外のテキストは一切出力しないでください。

{
  "verdict": "STRONG_BUY" | "BUY" | "WAIT" | "SELL",
  "timeframe": "DAY_TRADE" | "MID_LONG",
  "reason": "判断理由を1文で簡潔に（日本語）"
}

【verdict の判断基準】
- STRONG_BUY: 上方修正、サプライズ決算、大型提携など、株価に強烈なインパクトがあるもの
- BUY: 業績好調、増配、国策テーマなど、ポジティブだが緊急性は低いもの
- WAIT: 判断材料不足、中立的なニュース
- SELL: 業績悪化、不祥事、下方修正など、ネガティブなもの

【timeframe の判断基準】
- DAY_TRADE: 決算速報、上方修正、提携発表、突発的な材料など瞬発力があるもの。翌営業日のギャップアップ/ダウンが予想される場合はこちら。
- MID_LONG: 国策（防衛費増額）、新工場建設、技術革新、業績の安定的拡大など。数週間〜数ヶ月の保有を推奨するもの。`

const (
	labelPortfolio   = "【保有株関連ニュース】"
	labelOpportunity = "【新規チャンス候補】"
)

func buildPrompt(item feed.NewsItem) string {
	label := labelOpportunity
	if item.Category == watchlist.CategoryPortfolio {
		label = labelPortfolio
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n\n【タイトル】\n")
	b.WriteString(item.Title)
	b.WriteString("\n\n【概要】\n")
	b.WriteString(item.Summary)
	if body := strings.TrimSpace(item.ArticleBody); body != "" {
		b.WriteString("\n\n【記事本文（抜粋）】\n")
		b.WriteString(body)
	}
	b.WriteString("\n\n【マッチしたキーワード】\n")
	b.WriteString(strings.Join(item.MatchedKeywords, ", "))
	b.WriteString("\n\n上記ニュースを分析し、投資判断(verdict)と最適な保有期間(timeframe)をJSON形式で回答してください。")

	return b.String()
}
