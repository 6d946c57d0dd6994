package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

// TechnicalAnalyst reads the price window and signals on momentum and
// trend direction.
type TechnicalAnalyst struct {
	provider dataflows.Provider
}

func NewTechnicalAnalyst(provider dataflows.Provider) *TechnicalAnalyst {
	return &TechnicalAnalyst{provider: provider}
}

func (a *TechnicalAnalyst) Name() string { return consts.TechnicalAgent }

func (a *TechnicalAnalyst) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	start, end, err := window(state)
	if err != nil {
		return nil, err
	}

	bars, err := a.provider.Prices(ctx, state.Data.Ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("technical analyst: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("technical analyst: no price bars for %s", state.Data.Ticker)
	}

	first := bars[0].Close.InexactFloat64()
	last := bars[len(bars)-1].Close.InexactFloat64()
	if first == 0 {
		return nil, fmt.Errorf("technical analyst: zero opening close for %s", state.Data.Ticker)
	}
	momentum := (last - first) / first

	// Short-over-long moving average as the trend check.
	shortMA := closeMean(bars, 10)
	longMA := closeMean(bars, 30)

	var stances []string
	switch {
	case momentum > 0.02:
		stances = append(stances, models.StanceBullish)
	case momentum < -0.02:
		stances = append(stances, models.StanceBearish)
	default:
		stances = append(stances, models.StanceNeutral)
	}
	switch {
	case shortMA > longMA*1.005:
		stances = append(stances, models.StanceBullish)
	case shortMA < longMA*0.995:
		stances = append(stances, models.StanceBearish)
	default:
		stances = append(stances, models.StanceNeutral)
	}

	stance, confidence := vote(stances)
	sig := models.Signal{
		Signal:     stance,
		Confidence: math.Min(1, confidence+math.Abs(momentum)),
		Reasoning: fmt.Sprintf("momentum %.2f%% over %d bars, 10d MA %.2f vs 30d MA %.2f",
			momentum*100, len(bars), shortMA, longMA),
	}
	return record(state, a.Name(), sig), nil
}

// closeMean averages the closing price of the trailing n bars.
func closeMean(bars []dataflows.PriceBar, n int) float64 {
	if n > len(bars) {
		n = len(bars)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, b := range bars[len(bars)-n:] {
		sum += b.Close.InexactFloat64()
	}
	return sum / float64(n)
}
