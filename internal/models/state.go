package models

import (
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// TradeData is the per-ticker payload threaded through the workflow graph.
// AnalystSignals only grows during a run: every analyst writes under its own
// agent key and nothing ever removes or overwrites another agent's entry.
type TradeData struct {
	Ticker         string            `json:"ticker"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Portfolio      Portfolio         `json:"portfolio"`
	AnalystSignals map[string]Signal `json:"analyst_signals"`
}

// RunMetadata carries run-scoped settings that are not trading data.
type RunMetadata struct {
	RunID         string `json:"run_id"`
	ShowReasoning bool   `json:"show_reasoning"`
}

// HedgeState is the shared state passed through every graph node for one
// ticker invocation. Messages are append-only; the last message holds the
// portfolio manager's decision payload once the graph completes.
type HedgeState struct {
	Messages []*schema.Message `json:"messages"`
	Data     *TradeData        `json:"data"`
	Metadata *RunMetadata      `json:"metadata"`
}

// NewHedgeState builds a fresh state seeded with the single instruction
// message the workflow starts from.
func NewHedgeState(ticker, startDate, endDate string, portfolio Portfolio, showReasoning bool) *HedgeState {
	return &HedgeState{
		Messages: []*schema.Message{
			schema.UserMessage("Make a trading decision based on the provided data."),
		},
		Data: &TradeData{
			Ticker:         ticker,
			StartDate:      startDate,
			EndDate:        endDate,
			Portfolio:      portfolio,
			AnalystSignals: make(map[string]Signal),
		},
		Metadata: &RunMetadata{
			RunID:         uuid.NewString(),
			ShowReasoning: showReasoning,
		},
	}
}

// Clone returns a copy safe for an analyst to mutate while siblings run in
// the same superstep. Message pointers are shared (messages are immutable
// once appended); the signal map and trade data are copied.
func (s *HedgeState) Clone() *HedgeState {
	signals := make(map[string]Signal, len(s.Data.AnalystSignals))
	for k, v := range s.Data.AnalystSignals {
		signals[k] = v
	}

	messages := make([]*schema.Message, len(s.Messages))
	copy(messages, s.Messages)

	data := *s.Data
	data.AnalystSignals = signals
	meta := *s.Metadata

	return &HedgeState{
		Messages: messages,
		Data:     &data,
		Metadata: &meta,
	}
}

// AppendSignal records one analyst's output under its agent key.
func (s *HedgeState) AppendSignal(agent string, sig Signal) {
	s.Data.AnalystSignals[agent] = sig
}

// AppendMessage adds a conversational turn to the state.
func (s *HedgeState) AppendMessage(msg *schema.Message) {
	s.Messages = append(s.Messages, msg)
}

// LastMessage returns the most recent message, or nil for an empty state.
func (s *HedgeState) LastMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// MergeStates combines the states produced by parallel analyst nodes into a
// single fan-in state. Signal maps are unioned (keys never collide because
// each analyst writes only its own key) and messages are deduplicated by
// identity so the shared seed prefix appears once.
func MergeStates(states []*HedgeState) (*HedgeState, error) {
	if len(states) == 0 {
		return nil, nil
	}
	if len(states) == 1 {
		return states[0], nil
	}

	merged := states[0].Clone()
	seen := make(map[*schema.Message]struct{}, len(merged.Messages))
	for _, m := range merged.Messages {
		seen[m] = struct{}{}
	}

	for _, st := range states[1:] {
		for k, v := range st.Data.AnalystSignals {
			if _, ok := merged.Data.AnalystSignals[k]; !ok {
				merged.Data.AnalystSignals[k] = v
			}
		}
		for _, m := range st.Messages {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			merged.Messages = append(merged.Messages, m)
		}
	}

	return merged, nil
}
