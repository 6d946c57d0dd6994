package agents

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

var (
	positiveWords = regexp.MustCompile(`(?i)\b(beats?|surges?|soars?|record|upgrade[ds]?|rall(y|ies)|growth|strong|buy|outperform|jumps?|gains?)\b`)
	negativeWords = regexp.MustCompile(`(?i)\b(miss(es)?|falls?|plunges?|drops?|downgrade[ds]?|lawsuit|probe|weak|sell|underperform|cuts?|losses?|recall)\b`)
)

// SentimentAnalyst scores recent company headlines by polarity word counts.
type SentimentAnalyst struct {
	provider dataflows.Provider
}

func NewSentimentAnalyst(provider dataflows.Provider) *SentimentAnalyst {
	return &SentimentAnalyst{provider: provider}
}

func (a *SentimentAnalyst) Name() string { return consts.SentimentAgent }

func (a *SentimentAnalyst) Run(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
	start, end, err := window(state)
	if err != nil {
		return nil, err
	}

	articles, err := a.provider.News(ctx, state.Data.Ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("sentiment analyst: %w", err)
	}

	var positive, negative int
	for _, art := range articles {
		positive += len(positiveWords.FindAllString(art.Headline, -1))
		negative += len(negativeWords.FindAllString(art.Headline, -1))
	}

	stance := models.StanceNeutral
	confidence := 0.5
	total := positive + negative
	switch {
	case total == 0:
		// No scored headlines: stay neutral with low conviction.
		confidence = 0.3
	case positive > negative:
		stance = models.StanceBullish
		confidence = float64(positive) / float64(total)
	case negative > positive:
		stance = models.StanceBearish
		confidence = float64(negative) / float64(total)
	}

	sig := models.Signal{
		Signal:     stance,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("%d headlines: %d positive hits, %d negative hits",
			len(articles), positive, negative),
	}
	return record(state, a.Name(), sig), nil
}
