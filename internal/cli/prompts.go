package cli

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/dquant/hedgego/consts"
)

var analystOptions = []struct {
	display string
	key     string
}{
	{"Technical Analyst", consts.TechnicalAnalyst},
	{"Fundamentals Analyst", consts.FundamentalsAnalyst},
	{"Sentiment Analyst", consts.SentimentAnalyst},
	{"Valuation Analyst", consts.ValuationAnalyst},
}

// SelectAnalysts prompts for a subset of the analyst team. An empty or
// aborted selection falls back to all analysts; the caller prints the
// warning so prompt and output concerns stay separate.
func SelectAnalysts() (keys []string, fellBack bool) {
	options := make([]string, len(analystOptions))
	for i, opt := range analystOptions {
		options[i] = opt.display
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select your AI analysts.",
		Options: options,
		Help:    "Space toggles an analyst, enter confirms. Leave everything unselected to use the full team.",
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		// A failed prompt (no terminal, interrupt) runs with the full team.
		return nil, true
	}
	if len(selected) == 0 {
		return nil, true
	}

	keys = make([]string, 0, len(selected))
	for _, display := range selected {
		for _, opt := range analystOptions {
			if opt.display == display {
				keys = append(keys, opt.key)
				break
			}
		}
	}
	return keys, false
}
