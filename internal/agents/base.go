package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/dquant/hedgego/internal/models"
)

// Agent is a single unit of work in the trading workflow. Run receives the
// shared run state and returns a state with at most one new signal appended
// under the agent's own key. Agents never remove or overwrite another
// agent's entries.
type Agent interface {
	Name() string
	Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error)
}

// window parses the run's date range out of the state.
func window(state *models.HedgeState) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", state.Data.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %q: %w", state.Data.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", state.Data.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q: %w", state.Data.EndDate, err)
	}
	return start, end, nil
}

// record clones the state, appends the agent's signal, and surfaces the
// reasoning as a message when the run asks for it.
func record(state *models.HedgeState, agent string, sig models.Signal) *models.HedgeState {
	out := state.Clone()
	out.AppendSignal(agent, sig)
	if out.Metadata.ShowReasoning && sig.Reasoning != "" {
		content := fmt.Sprintf("[%s] %s (%.0f%%): %s", agent, sig.Signal, sig.Confidence*100, sig.Reasoning)
		out.AppendMessage(schema.AssistantMessage(content, nil))
	}
	return out
}

// vote tallies stances into a majority signal with a simple agreement
// confidence. Ties resolve to neutral.
func vote(stances []string) (string, float64) {
	if len(stances) == 0 {
		return models.StanceNeutral, 0
	}
	var bull, bear int
	for _, s := range stances {
		switch s {
		case models.StanceBullish:
			bull++
		case models.StanceBearish:
			bear++
		}
	}
	total := float64(len(stances))
	switch {
	case bull > bear:
		return models.StanceBullish, float64(bull) / total
	case bear > bull:
		return models.StanceBearish, float64(bear) / total
	default:
		return models.StanceNeutral, float64(len(stances)-bull-bear) / total
	}
}
