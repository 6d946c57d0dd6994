package dataflows

import (
	"context"
	"time"
)

// LiveProvider is the production Provider: Yahoo Finance for prices and
// fundamentals, Google News for headlines.
type LiveProvider struct {
	yahoo *YahooClient
	news  *NewsScraper
}

func NewLiveProvider() *LiveProvider {
	return &LiveProvider{
		yahoo: NewYahooClient(),
		news:  NewNewsScraper(),
	}
}

func (p *LiveProvider) Prices(ctx context.Context, ticker string, start, end time.Time) ([]PriceBar, error) {
	return p.yahoo.Prices(ctx, ticker, start, end)
}

func (p *LiveProvider) Metrics(ctx context.Context, ticker string) (*FinancialMetrics, error) {
	return p.yahoo.Metrics(ctx, ticker)
}

func (p *LiveProvider) News(ctx context.Context, ticker string, start, end time.Time) ([]NewsArticle, error) {
	return p.news.News(ctx, ticker, start, end)
}
