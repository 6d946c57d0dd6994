package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/models"
)

// PortfolioManager consumes the risk assessment plus all analyst signals
// and emits the final decision as a JSON message. The decision payload is
// the last message of the run and is what the runner parses.
type PortfolioManager struct{}

func NewPortfolioManager() *PortfolioManager {
	return &PortfolioManager{}
}

func (a *PortfolioManager) Name() string { return consts.PortfolioAgent }

func (a *PortfolioManager) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	risk, ok := state.Data.AnalystSignals[consts.RiskManagementAgent]
	if !ok {
		return nil, fmt.Errorf("portfolio management: missing risk assessment for %s", state.Data.Ticker)
	}

	var bullScore, bearScore, total float64
	var reasons []string
	for agent, sig := range state.Data.AnalystSignals {
		if agent == consts.RiskManagementAgent {
			continue
		}
		total += sig.Confidence
		switch sig.Signal {
		case models.StanceBullish:
			bullScore += sig.Confidence
		case models.StanceBearish:
			bearScore += sig.Confidence
		}
		reasons = append(reasons, fmt.Sprintf("%s=%s", agent, sig.Signal))
	}

	decision := models.Decision{Action: models.ActionHold}
	switch {
	case bullScore > bearScore && risk.MaxShares > 0:
		decision.Action = models.ActionBuy
		decision.Quantity = risk.MaxShares
		decision.Confidence = bullScore / max(total, bullScore)
	case bearScore > bullScore && state.Data.Portfolio.Stock > 0:
		decision.Action = models.ActionSell
		decision.Quantity = state.Data.Portfolio.Stock
		decision.Confidence = bearScore / max(total, bearScore)
	default:
		decision.Confidence = 1 - (bullScore+bearScore)/max(total, 1)
	}
	decision.Reasoning = fmt.Sprintf("signals: %s; risk cap %d shares",
		strings.Join(reasons, ", "), risk.MaxShares)

	payload, err := json.Marshal(decision)
	if err != nil {
		return nil, fmt.Errorf("portfolio management: encode decision: %w", err)
	}

	out := state.Clone()
	out.AppendMessage(schema.AssistantMessage(string(payload), nil))
	return out, nil
}
