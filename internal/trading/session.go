package trading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog"

	"github.com/dquant/hedgego/internal/config"
	"github.com/dquant/hedgego/internal/graph"
	"github.com/dquant/hedgego/internal/models"
)

// Reporter receives per-ticker progress while a run executes.
type Reporter interface {
	Start(ticker string)
	Result(result *models.RunResult)
	Error(ticker string, err error)
}

// Session runs the compiled workflow once per ticker. The graph is built
// (or fetched from the builder's cache) per analyst selection; every
// invocation gets a fresh state so nothing leaks between tickers.
type Session struct {
	builder *graph.Builder
	logger  zerolog.Logger
}

func NewSession(builder *graph.Builder, logger zerolog.Logger) *Session {
	return &Session{builder: builder, logger: logger}
}

// Run invokes the workflow for one ticker to completion and parses the
// final message into a decision. An unparseable final message yields a nil
// decision while the gathered signals are still returned; a failure inside
// the graph surfaces as an error for the caller's per-ticker boundary.
func (s *Session) Run(ctx context.Context, ticker, startDate, endDate string, portfolio models.Portfolio, showReasoning bool, selection []string) (*models.RunResult, error) {
	runnable, err := s.builder.Build(ctx, selection)
	if err != nil {
		return nil, err
	}

	state := models.NewHedgeState(ticker, startDate, endDate, portfolio, showReasoning)
	final, err := runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("workflow for %s: %w", ticker, err)
	}

	return &models.RunResult{
		Ticker:         ticker,
		Decision:       s.parseDecision(ticker, final.LastMessage()),
		AnalystSignals: final.Data.AnalystSignals,
	}, nil
}

// RunAll processes the run's tickers sequentially in list order. A failure
// for one ticker is reported and the loop moves on; an unknown analyst key
// aborts, since the graph can never be built for any ticker.
func (s *Session) RunAll(ctx context.Context, run *config.RunConfig, selection []string, reporter Reporter) error {
	for _, ticker := range run.Tickers {
		reporter.Start(ticker)

		result, err := s.Run(ctx, ticker,
			run.StartDate, run.EndDate,
			run.Portfolios[ticker], run.ShowReasoning, selection)
		if err != nil {
			var unknown *graph.UnknownAnalystError
			if errors.As(err, &unknown) {
				return err
			}
			s.logger.Error().Err(err).Str("ticker", ticker).Msg("ticker failed")
			reporter.Error(ticker, err)
			continue
		}

		reporter.Result(result)
	}
	return nil
}

// parseDecision reads the last message as a JSON decision payload. Malformed
// JSON gets one repair attempt; after that the decision is treated as
// permanently failed for this ticker and nil is returned.
func (s *Session) parseDecision(ticker string, msg *schema.Message) *models.Decision {
	if msg == nil || msg.Content == "" {
		s.logger.Warn().Str("ticker", ticker).Msg("workflow produced no final message")
		return nil
	}

	var d models.Decision
	if err := json.Unmarshal([]byte(msg.Content), &d); err == nil {
		return &d
	}

	repaired, err := jsonrepair.JSONRepair(msg.Content)
	if err == nil {
		if uerr := json.Unmarshal([]byte(repaired), &d); uerr == nil {
			return &d
		}
	}

	s.logger.Warn().
		Str("ticker", ticker).
		Str("content", msg.Content).
		Msg("could not parse decision payload")
	return nil
}
