package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

type stubProvider struct{}

func (s *stubProvider) Prices(ctx context.Context, ticker string, start, end time.Time) ([]dataflows.PriceBar, error) {
	bars := make([]dataflows.PriceBar, 40)
	day := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = dataflows.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Close:  decimal.NewFromFloat(100 + float64(i)),
			Volume: 1000,
		}
	}
	return bars, nil
}

func (s *stubProvider) Metrics(ctx context.Context, ticker string) (*dataflows.FinancialMetrics, error) {
	return &dataflows.FinancialMetrics{
		Price:       decimal.NewFromInt(100),
		MarketCap:   decimal.NewFromInt(1000000000),
		EPSTrailing: 5,
		EPSForward:  6,
		PERatio:     20,
		PriceToBook: 3,
	}, nil
}

func (s *stubProvider) News(ctx context.Context, ticker string, start, end time.Time) ([]dataflows.NewsArticle, error) {
	return []dataflows.NewsArticle{
		{Headline: "Shares surge on record earnings"},
	}, nil
}

func runState() *models.HedgeState {
	return models.NewHedgeState("AAPL", "2024-02-15", "2024-05-15", models.NewDefaultPortfolio(), false)
}

func TestBuildAndRunAllAnalysts(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(&stubProvider{})

	runnable, err := builder.Build(ctx, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	final, err := runnable.Invoke(ctx, runState())
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	// One signal per analyst plus the risk assessment.
	wantAgents := []string{
		consts.TechnicalAgent,
		consts.FundamentalsAgent,
		consts.SentimentAgent,
		consts.ValuationAgent,
		consts.RiskManagementAgent,
	}
	if len(final.Data.AnalystSignals) != len(wantAgents) {
		t.Fatalf("expected %d signals, got %d: %v",
			len(wantAgents), len(final.Data.AnalystSignals), final.Data.AnalystSignals)
	}
	for _, agent := range wantAgents {
		if _, ok := final.Data.AnalystSignals[agent]; !ok {
			t.Fatalf("missing signal for %s", agent)
		}
	}

	var decision models.Decision
	if err := json.Unmarshal([]byte(final.LastMessage().Content), &decision); err != nil {
		t.Fatalf("final message is not a JSON decision: %v", err)
	}
	if decision.Action == "" {
		t.Fatal("decision has no action")
	}
}

func TestBuildSubsetOnlyRunsSelectedAnalysts(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(&stubProvider{})

	runnable, err := builder.Build(ctx, []string{consts.TechnicalAnalyst, consts.SentimentAnalyst})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	final, err := runnable.Invoke(ctx, runState())
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if len(final.Data.AnalystSignals) != 3 {
		t.Fatalf("expected technical + sentiment + risk signals, got %v", final.Data.AnalystSignals)
	}
	if _, ok := final.Data.AnalystSignals[consts.FundamentalsAgent]; ok {
		t.Fatal("fundamentals ran despite not being selected")
	}
}

func TestBuildDeduplicatesSelection(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(&stubProvider{})

	runnable, err := builder.Build(ctx, []string{
		consts.TechnicalAnalyst,
		consts.TechnicalAnalyst,
		consts.SentimentAnalyst,
	})
	if err != nil {
		t.Fatalf("Build with duplicate keys: %v", err)
	}

	final, err := runnable.Invoke(ctx, runState())
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(final.Data.AnalystSignals) != 3 {
		t.Fatalf("duplicate key produced extra signals: %v", final.Data.AnalystSignals)
	}
}

func TestBuildRejectsUnknownAnalyst(t *testing.T) {
	builder := NewBuilder(&stubProvider{})

	_, err := builder.Build(context.Background(), []string{"astrology_analyst"})
	if err == nil {
		t.Fatal("expected error for unknown analyst key")
	}

	var unknown *UnknownAnalystError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownAnalystError, got %T", err)
	}
	if unknown.Key != "astrology_analyst" {
		t.Fatalf("unexpected key in error: %s", unknown.Key)
	}
	if len(builder.cache) != 0 {
		t.Fatal("a partial graph was cached for a failed build")
	}
}

func TestBuildCachesPerSelection(t *testing.T) {
	ctx := context.Background()
	builder := NewBuilder(&stubProvider{})

	if _, err := builder.Build(ctx, []string{consts.TechnicalAnalyst}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := builder.Build(ctx, []string{consts.TechnicalAnalyst}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(builder.cache) != 1 {
		t.Fatalf("expected one cached graph, got %d", len(builder.cache))
	}

	if _, err := builder.Build(ctx, []string{consts.SentimentAnalyst}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(builder.cache) != 2 {
		t.Fatalf("expected a second cached graph, got %d", len(builder.cache))
	}
}
