package analyzer

import "errors"

type Verdict string

const (
	VerdictStrongBuy Verdict = "STRONG_BUY"
	VerdictBuy       Verdict = "BUY"
	VerdictWait      Verdict = "WAIT"
	VerdictSell      Verdict = "SELL"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictStrongBuy, VerdictBuy, VerdictWait, VerdictSell:
		return true
	}
	return false
}

type Timeframe string

const (
	TimeframeDayTrade Timeframe = "DAY_TRADE"
	TimeframeMidLong  Timeframe = "MID_LONG"
)

func (t Timeframe) Valid() bool {
	return t == TimeframeDayTrade || t == TimeframeMidLong
}

// Result is the classification of one news item.
type Result struct {
	Verdict   Verdict   `json:"verdict"`
	Timeframe Timeframe `json:"timeframe"`
	Reason    string    `json:"reason"`
}

// Urgent reports a strong signal expected to move the price next session.
func (r *Result) Urgent() bool {
	return r.Verdict == VerdictStrongBuy && r.Timeframe == TimeframeDayTrade
}

var ErrDisabled = errors.New("analyzer disabled: no API key configured")
