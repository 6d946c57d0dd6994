package agents

import (
	"context"
	"fmt"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

// FundamentalsAnalyst signals on valuation multiples and earnings
// trajectory from the current fundamentals snapshot.
type FundamentalsAnalyst struct {
	provider dataflows.Provider
}

func NewFundamentalsAnalyst(provider dataflows.Provider) *FundamentalsAnalyst {
	return &FundamentalsAnalyst{provider: provider}
}

func (a *FundamentalsAnalyst) Name() string { return consts.FundamentalsAgent }

func (a *FundamentalsAnalyst) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	m, err := a.provider.Metrics(ctx, state.Data.Ticker)
	if err != nil {
		return nil, fmt.Errorf("fundamentals analyst: %w", err)
	}

	var stances []string

	// Earnings multiple.
	switch {
	case m.PERatio > 0 && m.PERatio < 20:
		stances = append(stances, models.StanceBullish)
	case m.PERatio > 35 || m.PERatio <= 0:
		stances = append(stances, models.StanceBearish)
	default:
		stances = append(stances, models.StanceNeutral)
	}

	// Book multiple.
	switch {
	case m.PriceToBook > 0 && m.PriceToBook < 3:
		stances = append(stances, models.StanceBullish)
	case m.PriceToBook > 6:
		stances = append(stances, models.StanceBearish)
	default:
		stances = append(stances, models.StanceNeutral)
	}

	// Forward earnings vs trailing as the growth check.
	switch {
	case m.EPSForward > m.EPSTrailing && m.EPSTrailing > 0:
		stances = append(stances, models.StanceBullish)
	case m.EPSForward < m.EPSTrailing:
		stances = append(stances, models.StanceBearish)
	default:
		stances = append(stances, models.StanceNeutral)
	}

	stance, confidence := vote(stances)
	sig := models.Signal{
		Signal:     stance,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("PE %.1f, P/B %.1f, EPS trailing %.2f vs forward %.2f",
			m.PERatio, m.PriceToBook, m.EPSTrailing, m.EPSForward),
	}
	return record(state, a.Name(), sig), nil
}
