package agents

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

type stubProvider struct {
	bars    []dataflows.PriceBar
	metrics *dataflows.FinancialMetrics
	news    []dataflows.NewsArticle
	err     error
}

func (s *stubProvider) Prices(ctx context.Context, ticker string, start, end time.Time) ([]dataflows.PriceBar, error) {
	return s.bars, s.err
}

func (s *stubProvider) Metrics(ctx context.Context, ticker string) (*dataflows.FinancialMetrics, error) {
	return s.metrics, s.err
}

func (s *stubProvider) News(ctx context.Context, ticker string, start, end time.Time) ([]dataflows.NewsArticle, error) {
	return s.news, s.err
}

func makeBars(closes ...float64) []dataflows.PriceBar {
	bars := make([]dataflows.PriceBar, len(closes))
	day := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = dataflows.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Close:  decimal.NewFromFloat(c),
			Volume: 1000,
		}
	}
	return bars
}

func risingBars(n int) []dataflows.PriceBar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return makeBars(closes...)
}

func newRunState() *models.HedgeState {
	return models.NewHedgeState("AAPL", "2024-02-15", "2024-05-15", models.NewDefaultPortfolio(), false)
}

func TestTechnicalAnalystBullishOnUptrend(t *testing.T) {
	analyst := NewTechnicalAnalyst(&stubProvider{bars: risingBars(40)})
	state := newRunState()

	out, err := analyst.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	sig, ok := out.Data.AnalystSignals[consts.TechnicalAgent]
	if !ok {
		t.Fatal("no signal recorded under the technical agent key")
	}
	if sig.Signal != models.StanceBullish {
		t.Fatalf("expected bullish on an uptrend, got %s", sig.Signal)
	}
	if len(state.Data.AnalystSignals) != 0 {
		t.Fatal("analyst mutated the input state instead of a clone")
	}
}

func TestTechnicalAnalystBearishOnDowntrend(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 140 - float64(i)
	}
	analyst := NewTechnicalAnalyst(&stubProvider{bars: makeBars(closes...)})

	out, err := analyst.Run(context.Background(), newRunState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sig := out.Data.AnalystSignals[consts.TechnicalAgent]; sig.Signal != models.StanceBearish {
		t.Fatalf("expected bearish on a downtrend, got %s", sig.Signal)
	}
}

func TestFundamentalsAnalystBullishOnCheapGrower(t *testing.T) {
	analyst := NewFundamentalsAnalyst(&stubProvider{metrics: &dataflows.FinancialMetrics{
		PERatio:     15,
		PriceToBook: 2,
		EPSTrailing: 5,
		EPSForward:  6,
	}})

	out, err := analyst.Run(context.Background(), newRunState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sig := out.Data.AnalystSignals[consts.FundamentalsAgent]
	if sig.Signal != models.StanceBullish {
		t.Fatalf("expected bullish, got %s", sig.Signal)
	}
	if sig.Confidence != 1 {
		t.Fatalf("expected full agreement confidence, got %f", sig.Confidence)
	}
}

func TestSentimentAnalystScoresHeadlines(t *testing.T) {
	analyst := NewSentimentAnalyst(&stubProvider{news: []dataflows.NewsArticle{
		{Headline: "Apple beats expectations as iPhone sales surge"},
		{Headline: "Analysts upgrade AAPL on strong services growth"},
		{Headline: "Supplier misses quarterly targets"},
	}})

	out, err := analyst.Run(context.Background(), newRunState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sig := out.Data.AnalystSignals[consts.SentimentAgent]
	if sig.Signal != models.StanceBullish {
		t.Fatalf("expected bullish from mostly positive headlines, got %s", sig.Signal)
	}
}

func TestSentimentAnalystNeutralWithoutHeadlines(t *testing.T) {
	analyst := NewSentimentAnalyst(&stubProvider{})

	out, err := analyst.Run(context.Background(), newRunState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sig := out.Data.AnalystSignals[consts.SentimentAgent]; sig.Signal != models.StanceNeutral {
		t.Fatalf("expected neutral with no headlines, got %s", sig.Signal)
	}
}

func TestValuationAnalystNeutralWithoutEarnings(t *testing.T) {
	analyst := NewValuationAnalyst(&stubProvider{metrics: &dataflows.FinancialMetrics{
		Price:     decimal.NewFromInt(100),
		MarketCap: decimal.NewFromInt(1000000),
	}})

	out, err := analyst.Run(context.Background(), newRunState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sig := out.Data.AnalystSignals[consts.ValuationAgent]; sig.Signal != models.StanceNeutral {
		t.Fatalf("expected neutral without earnings data, got %s", sig.Signal)
	}
}

func TestRiskManagerCapsPosition(t *testing.T) {
	manager := NewRiskManager(&stubProvider{metrics: &dataflows.FinancialMetrics{
		Price: decimal.NewFromInt(100),
	}})

	state := newRunState()
	state.AppendSignal(consts.TechnicalAgent, models.Signal{Signal: models.StanceBullish})
	state.AppendSignal(consts.SentimentAgent, models.Signal{Signal: models.StanceBullish})

	out, err := manager.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	sig := out.Data.AnalystSignals[consts.RiskManagementAgent]

	// Full agreement: 20% of 100k cash at price 100 caps at 200 shares.
	if sig.MaxShares != 200 {
		t.Fatalf("expected 200 share cap, got %d", sig.MaxShares)
	}
	if sig.Signal != models.StanceBullish {
		t.Fatalf("expected bullish aggregate, got %s", sig.Signal)
	}
}

func TestRiskManagerRequiresSignals(t *testing.T) {
	manager := NewRiskManager(&stubProvider{metrics: &dataflows.FinancialMetrics{
		Price: decimal.NewFromInt(100),
	}})

	if _, err := manager.Run(context.Background(), newRunState()); err == nil {
		t.Fatal("expected error when no analyst signals are present")
	}
}

func TestPortfolioManagerEmitsBuyDecision(t *testing.T) {
	manager := NewPortfolioManager()

	state := newRunState()
	state.AppendSignal(consts.TechnicalAgent, models.Signal{Signal: models.StanceBullish, Confidence: 0.9})
	state.AppendSignal(consts.SentimentAgent, models.Signal{Signal: models.StanceBullish, Confidence: 0.7})
	state.AppendSignal(consts.RiskManagementAgent, models.Signal{Signal: models.StanceBullish, MaxShares: 150})

	out, err := manager.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	last := out.LastMessage()
	if last == nil {
		t.Fatal("no final message emitted")
	}

	var decision models.Decision
	if err := json.Unmarshal([]byte(last.Content), &decision); err != nil {
		t.Fatalf("final message is not a JSON decision: %v", err)
	}
	if decision.Action != models.ActionBuy {
		t.Fatalf("expected buy, got %s", decision.Action)
	}
	if decision.Quantity != 150 {
		t.Fatalf("expected quantity capped at 150, got %d", decision.Quantity)
	}
}

func TestPortfolioManagerSellsHeldStock(t *testing.T) {
	manager := NewPortfolioManager()

	state := models.NewHedgeState("AAPL", "2024-02-15", "2024-05-15",
		models.Portfolio{Cash: decimal.NewFromInt(1000), Stock: 25}, false)
	state.AppendSignal(consts.TechnicalAgent, models.Signal{Signal: models.StanceBearish, Confidence: 0.8})
	state.AppendSignal(consts.RiskManagementAgent, models.Signal{Signal: models.StanceBearish, MaxShares: 2})

	out, err := manager.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var decision models.Decision
	if err := json.Unmarshal([]byte(out.LastMessage().Content), &decision); err != nil {
		t.Fatalf("parse decision: %v", err)
	}
	if decision.Action != models.ActionSell {
		t.Fatalf("expected sell, got %s", decision.Action)
	}
	if decision.Quantity != 25 {
		t.Fatalf("expected to sell the whole 25 share position, got %d", decision.Quantity)
	}
}

func TestPortfolioManagerRequiresRiskAssessment(t *testing.T) {
	manager := NewPortfolioManager()

	state := newRunState()
	state.AppendSignal(consts.TechnicalAgent, models.Signal{Signal: models.StanceBullish})

	if _, err := manager.Run(context.Background(), state); err == nil {
		t.Fatal("expected error without a risk assessment")
	}
}

func TestShowReasoningAppendsMessage(t *testing.T) {
	analyst := NewTechnicalAnalyst(&stubProvider{bars: risingBars(40)})
	state := models.NewHedgeState("AAPL", "2024-02-15", "2024-05-15", models.NewDefaultPortfolio(), true)

	out, err := analyst.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("expected reasoning message appended, got %d messages", len(out.Messages))
	}
}
