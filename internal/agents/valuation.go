package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

// ValuationAnalyst compares a Graham-style intrinsic value against the
// current market capitalization.
type ValuationAnalyst struct {
	provider dataflows.Provider
}

func NewValuationAnalyst(provider dataflows.Provider) *ValuationAnalyst {
	return &ValuationAnalyst{provider: provider}
}

func (a *ValuationAnalyst) Name() string { return consts.ValuationAgent }

func (a *ValuationAnalyst) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	m, err := a.provider.Metrics(ctx, state.Data.Ticker)
	if err != nil {
		return nil, fmt.Errorf("valuation analyst: %w", err)
	}
	if m.MarketCap.IsZero() || m.Price.IsZero() || m.EPSTrailing <= 0 {
		sig := models.Signal{
			Signal:     models.StanceNeutral,
			Confidence: 0.3,
			Reasoning:  "insufficient earnings data for an intrinsic value estimate",
		}
		return record(state, a.Name(), sig), nil
	}

	// Graham multiple with forward EPS as the growth proxy.
	growth := 0.0
	if m.EPSForward > m.EPSTrailing {
		growth = (m.EPSForward - m.EPSTrailing) / m.EPSTrailing
	}
	multiple := 8.5 + 2*math.Min(growth*100, 20)

	shares := m.MarketCap.Div(m.Price)
	intrinsic := decimal.NewFromFloat(m.EPSTrailing * multiple).Mul(shares)
	gap := intrinsic.Sub(m.MarketCap).Div(m.MarketCap).InexactFloat64()

	stance := models.StanceNeutral
	switch {
	case gap > 0.15:
		stance = models.StanceBullish
	case gap < -0.15:
		stance = models.StanceBearish
	}

	sig := models.Signal{
		Signal:     stance,
		Confidence: math.Min(1, 0.5+math.Abs(gap)),
		Reasoning: fmt.Sprintf("intrinsic value %s vs market cap %s (gap %.1f%%)",
			intrinsic.StringFixed(0), m.MarketCap.StringFixed(0), gap*100),
	}
	return record(state, a.Name(), sig), nil
}
