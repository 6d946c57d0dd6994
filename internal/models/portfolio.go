package models

import "github.com/shopspring/decimal"

// DefaultCash is the starting balance used when no portfolio configuration
// is supplied.
var DefaultCash = decimal.NewFromFloat(100000.0)

// Portfolio is one ticker's position for one run. Instances are copied per
// ticker and never shared across iterations.
type Portfolio struct {
	Cash  decimal.Decimal `json:"cash"`
	Stock int64           `json:"stock"`
}

// NewDefaultPortfolio returns a zero position with the default cash balance.
func NewDefaultPortfolio() Portfolio {
	return Portfolio{Cash: DefaultCash, Stock: 0}
}
