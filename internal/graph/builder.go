package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/dquant/hedgego/consts"
	"github.com/dquant/hedgego/internal/agents"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/models"
)

func init() {
	// Selected analysts fan in to risk management. Their parallel outputs
	// are merged back into a single state before the node fires.
	compose.RegisterValuesMergeFunc(models.MergeStates)
}

// UnknownAnalystError reports a selection key outside the fixed registry.
// It is raised at build time, before any graph exists.
type UnknownAnalystError struct {
	Key string
}

func (e *UnknownAnalystError) Error() string {
	return fmt.Sprintf("unknown analyst key %q", e.Key)
}

type nodeSpec struct {
	name  string
	agent agents.Agent
}

// Builder assembles the trading workflow graph for a given analyst
// selection. Graphs are compiled once per distinct selection and reused
// across tickers.
type Builder struct {
	registry  map[string]nodeSpec
	risk      agents.Agent
	portfolio agents.Agent
	cache     map[string]compose.Runnable[*models.HedgeState, *models.HedgeState]
}

// NewBuilder wires the static analyst registry against a market data
// provider. The registry is the only dispatch table: selection keys that
// are not in it cannot reach graph assembly.
func NewBuilder(provider dataflows.Provider) *Builder {
	return &Builder{
		registry: map[string]nodeSpec{
			consts.TechnicalAnalyst:    {name: consts.TechnicalAgent, agent: agents.NewTechnicalAnalyst(provider)},
			consts.FundamentalsAnalyst: {name: consts.FundamentalsAgent, agent: agents.NewFundamentalsAnalyst(provider)},
			consts.SentimentAnalyst:    {name: consts.SentimentAgent, agent: agents.NewSentimentAnalyst(provider)},
			consts.ValuationAnalyst:    {name: consts.ValuationAgent, agent: agents.NewValuationAnalyst(provider)},
		},
		risk:      agents.NewRiskManager(provider),
		portfolio: agents.NewPortfolioManager(),
		cache:     make(map[string]compose.Runnable[*models.HedgeState, *models.HedgeState]),
	}
}

// Build compiles the workflow for the selection. A nil or empty selection
// defaults to all analysts; duplicates collapse to a single node. The
// graph shape is fixed: start fans out to each selected analyst, every
// analyst feeds risk management, and risk management feeds portfolio
// management, which terminates the graph.
func (b *Builder) Build(ctx context.Context, selection []string) (compose.Runnable[*models.HedgeState, *models.HedgeState], error) {
	keys, err := b.normalize(selection)
	if err != nil {
		return nil, err
	}

	cacheKey := canonicalKey(keys)
	if r, ok := b.cache[cacheKey]; ok {
		return r, nil
	}

	g := compose.NewGraph[*models.HedgeState, *models.HedgeState]()

	startFn := func(ctx context.Context, state *models.HedgeState) (*models.HedgeState, error) {
		return state, nil
	}
	if err := g.AddLambdaNode(consts.StartNode, compose.InvokableLambda(startFn)); err != nil {
		return nil, fmt.Errorf("add start node: %w", err)
	}

	for _, key := range keys {
		spec := b.registry[key]
		if err := g.AddLambdaNode(spec.name, compose.InvokableLambda(spec.agent.Run)); err != nil {
			return nil, fmt.Errorf("add %s: %w", spec.name, err)
		}
	}

	if err := g.AddLambdaNode(consts.RiskManagementAgent, compose.InvokableLambda(b.risk.Run)); err != nil {
		return nil, fmt.Errorf("add %s: %w", consts.RiskManagementAgent, err)
	}
	if err := g.AddLambdaNode(consts.PortfolioAgent, compose.InvokableLambda(b.portfolio.Run)); err != nil {
		return nil, fmt.Errorf("add %s: %w", consts.PortfolioAgent, err)
	}

	if err := g.AddEdge(compose.START, consts.StartNode); err != nil {
		return nil, err
	}
	for _, key := range keys {
		name := b.registry[key].name
		if err := g.AddEdge(consts.StartNode, name); err != nil {
			return nil, err
		}
		if err := g.AddEdge(name, consts.RiskManagementAgent); err != nil {
			return nil, err
		}
	}
	if err := g.AddEdge(consts.RiskManagementAgent, consts.PortfolioAgent); err != nil {
		return nil, err
	}
	if err := g.AddEdge(consts.PortfolioAgent, compose.END); err != nil {
		return nil, err
	}

	r, err := g.Compile(ctx,
		compose.WithGraphName("hedge-fund"),
		compose.WithNodeTriggerMode(compose.AllPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile workflow: %w", err)
	}

	b.cache[cacheKey] = r
	return r, nil
}

// normalize defaults an empty selection to all analysts, strips duplicate
// keys while keeping first-occurrence order, and rejects unknown keys.
func (b *Builder) normalize(selection []string) ([]string, error) {
	if len(selection) == 0 {
		return consts.AllAnalysts(), nil
	}

	seen := make(map[string]struct{}, len(selection))
	keys := make([]string, 0, len(selection))
	for _, key := range selection {
		if _, ok := b.registry[key]; !ok {
			return nil, &UnknownAnalystError{Key: key}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

func canonicalKey(keys []string) string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
