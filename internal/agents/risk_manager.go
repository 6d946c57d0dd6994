package agents

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

// maxPositionFraction caps any single position at a share of portfolio cash.
var maxPositionFraction = decimal.NewFromFloat(0.20)

// RiskManager aggregates the analyst signals gathered so far into a risk
// assessment: an overall stance, an agreement score, and a hard cap on how
// many shares the portfolio manager may buy.
type RiskManager struct {
	provider dataflows.Provider
}

func NewRiskManager(provider dataflows.Provider) *RiskManager {
	return &RiskManager{provider: provider}
}

func (a *RiskManager) Name() string { return consts.RiskManagementAgent }

func (a *RiskManager) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	var stances []string
	for _, sig := range state.Data.AnalystSignals {
		stances = append(stances, sig.Signal)
	}
	if len(stances) == 0 {
		return nil, fmt.Errorf("risk management: no analyst signals gathered for %s", state.Data.Ticker)
	}

	stance, agreement := vote(stances)

	m, err := a.provider.Metrics(ctx, state.Data.Ticker)
	if err != nil {
		return nil, fmt.Errorf("risk management: %w", err)
	}
	if m.Price.IsZero() {
		return nil, fmt.Errorf("risk management: no price for %s", state.Data.Ticker)
	}

	// Position budget shrinks when the analysts disagree.
	budget := state.Data.Portfolio.Cash.Mul(maxPositionFraction)
	budget = budget.Mul(decimal.NewFromFloat(0.5 + agreement/2))
	maxShares := budget.Div(m.Price).IntPart()

	sig := models.Signal{
		Signal:     stance,
		Confidence: agreement,
		MaxShares:  maxShares,
		Reasoning: fmt.Sprintf("%d analyst signals, agreement %.0f%%, position cap %d shares at %s",
			len(stances), agreement*100, maxShares, m.Price.StringFixed(2)),
	}
	return record(state, a.Name(), sig), nil
}
