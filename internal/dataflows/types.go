package dataflows

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one day of OHLCV data for a ticker.
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// FinancialMetrics is a snapshot of valuation-relevant figures for a ticker.
type FinancialMetrics struct {
	Price            decimal.Decimal `json:"price"`
	MarketCap        decimal.Decimal `json:"market_cap"`
	EPSTrailing      float64         `json:"eps_trailing"`
	EPSForward       float64         `json:"eps_forward"`
	PERatio          float64         `json:"pe_ratio"`
	PriceToBook      float64         `json:"price_to_book"`
	FiftyDayAvg      decimal.Decimal `json:"fifty_day_avg"`
	TwoHundredDayAvg decimal.Decimal `json:"two_hundred_day_avg"`
}

// NewsArticle is a single company headline used for sentiment scoring.
type NewsArticle struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
