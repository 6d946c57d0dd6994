package dataflows

import (
	"context"
	"time"
)

// Provider supplies the market data the analyst agents work from. Agents
// hold a Provider and fetch what they need for the ticker and date window
// carried in the run state.
type Provider interface {
	// Prices returns daily bars for the ticker over [start, end].
	Prices(ctx context.Context, ticker string, start, end time.Time) ([]PriceBar, error)
	// Metrics returns a current fundamentals snapshot for the ticker.
	Metrics(ctx context.Context, ticker string) (*FinancialMetrics, error)
	// News returns recent company headlines for the ticker.
	News(ctx context.Context, ticker string, start, end time.Time) ([]NewsArticle, error)
}
