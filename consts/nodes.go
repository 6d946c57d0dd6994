package consts

// Graph node names. The start node fans out to every selected analyst,
// all analysts converge on risk management, and portfolio management
// produces the final decision message.
const (
	StartNode           = "start_node"
	TechnicalAgent      = "technical_analyst_agent"
	FundamentalsAgent   = "fundamentals_agent"
	SentimentAgent      = "sentiment_agent"
	ValuationAgent      = "valuation_agent"
	RiskManagementAgent = "risk_management_agent"
	PortfolioAgent      = "portfolio_management_agent"
)

// Analyst selection keys. This is a closed set: the workflow builder
// rejects anything outside of it before assembling a graph.
const (
	TechnicalAnalyst    = "technical_analyst"
	FundamentalsAnalyst = "fundamentals_analyst"
	SentimentAnalyst    = "sentiment_analyst"
	ValuationAnalyst    = "valuation_analyst"
)

// AllAnalysts lists every selectable analyst key in registry order.
func AllAnalysts() []string {
	return []string{
		TechnicalAnalyst,
		FundamentalsAnalyst,
		SentimentAnalyst,
		ValuationAnalyst,
	}
}
