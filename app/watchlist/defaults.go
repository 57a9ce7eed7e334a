package watchlist

// Default returns the built-in watchlist: three held positions (semiconductor
// materials, heavy industry, a megabank) plus a general opportunity list for
// Japanese equities, and three Japanese market news feeds.
func Default() *Watchlist {
	return &Watchlist{
		Portfolio: []Group{
			{
				Name: "東京応化工業 (4186)",
				Keywords: []string{
					"東京応化", "4186",
					"EUV", "極端紫外線",
					"フォトレジスト", "感光材",
					"TSMC", "熊本工場", "JASM",
					"ラピダス", "2ナノ", "微細化",
					"HBM", "広帯域メモリ",
					"パッケージング", "3次元実装",
					"SOX指数", "フィラデルフィア半導体",
				},
			},
			{
				Name: "三菱重工・川崎重工",
				Keywords: []string{
					"三菱重工", "7011", "川崎重工", "7012", "IHI",
					"防衛省", "防衛費", "防衛装備",
					"トマホーク", "ミサイル", "反撃能力",
					"NATO", "地政学", "台湾有事",
					"原発再稼働", "次世代原子炉", "SMR",
					"水素", "液化水素", "サプライチェーン",
					"H3ロケット", "JAXA", "宇宙",
					"円安", "為替介入",
				},
			},
			{
				Name: "三菱UFJ (8306)",
				Keywords: []string{
					"三菱UFJ", "8306", "MUFG",
					"日銀", "植田総裁", "金融政策決定会合",
					"マイナス金利", "利上げ", "金利ある世界",
					"YCC", "イールドカーブ", "長期金利",
					"FRB", "パウエル", "米金利",
					"PBR1倍", "東証要請",
					"増配", "自社株買い", "総還元性向",
					"政策保有株", "持ち合い解消",
				},
			},
		},
		Opportunity: []string{
			"上方修正", "最高益", "大幅増益",
			"増配", "株式分割",
			"ストップ高", "サプライズ",
			"レーティング引き上げ", "格上げ", "強気",
			"大量保有", "アクティビスト",
			"TOB", "MBO", "提携", "買収",
			"世界初", "画期的",
		},
		Feeds: []string{
			"https://finance.yahoo.co.jp/rss/news?category=stock",
			"https://news.google.com/rss/search?q=%E6%A0%AA%E5%BC%8F+%E6%B1%BA%E7%AE%97&hl=ja&gl=JP&ceid=JP:ja",
			"https://news.google.com/rss/search?q=%E6%97%A5%E6%9C%AC%E6%A0%AA+%E6%9D%90%E6%96%99&hl=ja&gl=JP&ceid=JP:ja",
		},
	}
}
