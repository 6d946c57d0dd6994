package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
)

// YahooClient fetches prices and fundamentals from Yahoo Finance.
type YahooClient struct{}

func NewYahooClient() *YahooClient {
	return &YahooClient{}
}

// Prices returns daily bars for the ticker over [start, end].
func (y *YahooClient) Prices(ctx context.Context, ticker string, start, end time.Time) ([]PriceBar, error) {
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []PriceBar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, PriceBar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart data for %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price data for %s between %s and %s",
			ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return bars, nil
}

// Metrics returns a fundamentals snapshot from the current quote.
func (y *YahooClient) Metrics(ctx context.Context, ticker string) (*FinancialMetrics, error) {
	q, err := equity.Get(ticker)
	if err != nil {
		return nil, fmt.Errorf("quote for %s: %w", ticker, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", ticker)
	}

	m := &FinancialMetrics{
		Price:            decimal.NewFromFloat(q.RegularMarketPrice),
		MarketCap:        decimal.NewFromInt(q.MarketCap),
		EPSTrailing:      q.EpsTrailingTwelveMonths,
		EPSForward:       q.EpsForward,
		PriceToBook:      q.PriceToBook,
		FiftyDayAvg:      decimal.NewFromFloat(q.FiftyDayAverage),
		TwoHundredDayAvg: decimal.NewFromFloat(q.TwoHundredDayAverage),
	}
	if q.EpsTrailingTwelveMonths > 0 {
		m.PERatio = q.RegularMarketPrice / q.EpsTrailingTwelveMonths
	}
	return m, nil
}
