package models

// Stance values emitted by analyst agents.
const (
	StanceBullish = "bullish"
	StanceBearish = "bearish"
	StanceNeutral = "neutral"
)

// Trading actions emitted by the portfolio manager.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// Signal is one agent's opinionated output for a ticker, keyed in the state
// by the agent's node name. Risk management reuses the type: its MaxShares
// field caps the quantity the portfolio manager may trade.
type Signal struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
	MaxShares  int64   `json:"max_shares,omitempty"`
}

// Decision is the structured payload parsed from the final graph message.
type Decision struct {
	Action     string  `json:"action"`
	Quantity   int64   `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// RunResult pairs the parsed decision with whatever signals were gathered.
// Decision is nil when the final message could not be parsed.
type RunResult struct {
	Ticker         string            `json:"ticker"`
	Decision       *Decision         `json:"decision"`
	AnalystSignals map[string]Signal `json:"analyst_signals"`
}
