package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"

	"github.com/dquant/hedgego/internal/models"
)

// UsageError marks a configuration mistake that aborts the whole run before
// any ticker is processed.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RunConfig is everything the ticker loop needs, resolved and validated
// up front.
type RunConfig struct {
	Tickers       []string
	Portfolios    map[string]models.Portfolio
	StartDate     string
	EndDate       string
	ShowReasoning bool
}

// LoadEnv loads the global ~/.env first, then a local .env if present.
// Missing files are fine; this is a one-time startup step.
func LoadEnv() {
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".env"))
	}
	_ = godotenv.Load(".env")
}

// Resolve validates the CLI inputs and produces the run configuration.
// Exactly one of tickers and configPath must be supplied.
func Resolve(tickers []string, configPath, startDate, endDate string, showReasoning bool, now time.Time) (*RunConfig, error) {
	if len(tickers) > 0 && configPath != "" {
		return nil, usageErrorf("--tickers and --config are mutually exclusive")
	}
	if len(tickers) == 0 && configPath == "" {
		return nil, usageErrorf("one of --tickers or --config is required")
	}

	start, end, err := ResolveDates(startDate, endDate, now)
	if err != nil {
		return nil, err
	}

	cfg := &RunConfig{
		StartDate:     start,
		EndDate:       end,
		ShowReasoning: showReasoning,
	}

	if configPath != "" {
		cfg.Tickers, cfg.Portfolios, err = LoadPortfolioConfig(configPath)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg.Tickers = tickers
	cfg.Portfolios = make(map[string]models.Portfolio, len(tickers))
	for _, t := range tickers {
		cfg.Portfolios[t] = models.NewDefaultPortfolio()
	}
	return cfg, nil
}

// ResolveDates applies the defaulting rules: end date falls back to today,
// start date to exactly three calendar months before the end date. Explicit
// dates must be strict YYYY-MM-DD.
func ResolveDates(startDate, endDate string, now time.Time) (string, string, error) {
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	} else if err := validateDate(endDate); err != nil {
		return "", "", usageErrorf("end date: %v", err)
	}

	if startDate == "" {
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return "", "", usageErrorf("end date %q: %v", endDate, err)
		}
		startDate = monthsBefore(end, 3).Format("2006-01-02")
	} else if err := validateDate(startDate); err != nil {
		return "", "", usageErrorf("start date: %v", err)
	}

	return startDate, endDate, nil
}

func validateDate(s string) error {
	if !dateFormat.MatchString(s) {
		return fmt.Errorf("%q must be in YYYY-MM-DD format", s)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%q is not a valid date", s)
	}
	return nil
}

// monthsBefore steps back whole calendar months, clamping the day to the
// target month's length so 2024-05-31 minus three months is 2024-02-29
// rather than rolling into March.
func monthsBefore(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - months
	for m < 1 {
		m += 12
		year--
	}
	if last := daysIn(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
