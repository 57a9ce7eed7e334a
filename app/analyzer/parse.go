package analyzer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/market-radar/app/feed"
)

const (
	maxReasonLength      = 200
	fallbackReasonLength = 150
	fallbackReason       = "分析結果を自動判定しました"
)

// ParseResponse turns model output into a Result. Well-formed JSON (bare or
// inside a markdown code fence) is decoded and validated; anything else goes
// through a keyword scan so a usable verdict is always produced.
func ParseResponse(raw string) *Result {
	raw = strings.TrimSpace(raw)

	result, err := decodeJSON(stripCodeFence(raw))
	if err == nil {
		return result
	}

	slog.Warn("Classifier response not valid JSON, using keyword fallback", "error", err, "raw", feed.Truncate(raw, 100))
	return fallbackParse(raw)
}

func stripCodeFence(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}

	var lines []string
	inBlock := false
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inBlock = !inBlock
			continue
		}
		if inBlock {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func decodeJSON(s string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	result.Verdict = Verdict(strings.ToUpper(strings.TrimSpace(string(result.Verdict))))
	result.Timeframe = Timeframe(strings.ToUpper(strings.TrimSpace(string(result.Timeframe))))

	if !result.Verdict.Valid() {
		return nil, fmt.Errorf("invalid verdict %q", result.Verdict)
	}
	if !result.Timeframe.Valid() {
		return nil, fmt.Errorf("invalid timeframe %q", result.Timeframe)
	}

	result.Reason = feed.Truncate(strings.TrimSpace(result.Reason), maxReasonLength)
	return &result, nil
}

func fallbackParse(raw string) *Result {
	upper := strings.ToUpper(raw)

	result := &Result{Verdict: VerdictWait, Timeframe: TimeframeMidLong}

	switch {
	case strings.Contains(upper, string(VerdictStrongBuy)):
		result.Verdict = VerdictStrongBuy
	case strings.Contains(upper, string(VerdictSell)):
		result.Verdict = VerdictSell
	case strings.Contains(upper, string(VerdictBuy)):
		result.Verdict = VerdictBuy
	}

	if strings.Contains(upper, string(TimeframeDayTrade)) {
		result.Timeframe = TimeframeDayTrade
	}

	reason := strings.TrimSpace(strings.ReplaceAll(feed.Truncate(raw, fallbackReasonLength), "\n", " "))
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "reason") || strings.Contains(raw, "理由") {
		if _, after, ok := strings.Cut(raw, ":"); ok {
			reason = feed.Truncate(strings.TrimSpace(after), fallbackReasonLength)
		}
	}
	if reason == "" {
		reason = fallbackReason
	}
	result.Reason = reason

	return result
}
