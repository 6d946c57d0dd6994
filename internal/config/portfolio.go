package config

import (
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dquant/hedgego/internal/models"
)

// PortfolioDocument is the YAML configuration accepted by --config. Cash
// defaults to the standard balance when absent; per-position stock defaults
// to zero.
type PortfolioDocument struct {
	Portfolio struct {
		Cash *float64 `yaml:"cash" validate:"omitempty,gte=0"`
	} `yaml:"portfolio"`
	Positions map[string]PositionEntry `yaml:"positions" validate:"required,min=1,dive"`
}

type PositionEntry struct {
	Stock int64 `yaml:"stock" validate:"gte=0"`
}

var validate = validator.New()

// LoadPortfolioConfig reads and validates a portfolio document, deriving
// the ticker list from the position names. Tickers come back sorted so a
// run processes them in a stable order.
func LoadPortfolioConfig(path string) ([]string, map[string]models.Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, usageErrorf("read config %s: %v", path, err)
	}

	var doc PortfolioDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, usageErrorf("parse config %s: %v", path, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, nil, usageErrorf("invalid config %s: %v", path, err)
	}

	cash := models.DefaultCash
	if doc.Portfolio.Cash != nil {
		cash = decimal.NewFromFloat(*doc.Portfolio.Cash)
	}

	tickers := make([]string, 0, len(doc.Positions))
	portfolios := make(map[string]models.Portfolio, len(doc.Positions))
	for ticker, pos := range doc.Positions {
		if ticker == "" {
			return nil, nil, usageErrorf("invalid config %s: empty ticker in positions", path)
		}
		tickers = append(tickers, ticker)
		portfolios[ticker] = models.Portfolio{Cash: cash, Stock: pos.Stock}
	}
	sort.Strings(tickers)

	return tickers, portfolios, nil
}
