package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dquant/hedgego/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	bullishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	bearishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	neutralStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))
)

// ConsoleReporter renders per-ticker progress to the terminal.
type ConsoleReporter struct{}

func (ConsoleReporter) Start(ticker string)             { PrintHeader(ticker) }
func (ConsoleReporter) Result(result *models.RunResult) { PrintResult(result) }
func (ConsoleReporter) Error(ticker string, err error)  { PrintError(ticker, err) }

// PrintHeader announces the ticker about to be analyzed.
func PrintHeader(ticker string) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Analyzing " + ticker))
	fmt.Println(strings.Repeat("=", 50))
}

// PrintResult renders the decision and the per-agent signals for one ticker.
func PrintResult(result *models.RunResult) {
	fmt.Println(headerStyle.Render("Analyst Signals"))
	agents := make([]string, 0, len(result.AnalystSignals))
	for agent := range result.AnalystSignals {
		agents = append(agents, agent)
	}
	sort.Strings(agents)
	for _, agent := range agents {
		sig := result.AnalystSignals[agent]
		line := fmt.Sprintf("  %-28s %s  %3.0f%%", agent, renderStance(sig.Signal), sig.Confidence*100)
		fmt.Println(line)
		if sig.Reasoning != "" {
			fmt.Println(dimStyle.Render("    " + sig.Reasoning))
		}
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Decision"))
	if result.Decision == nil {
		fmt.Println(errorStyle.Render("  no decision: final message was not parseable"))
		return
	}
	d := result.Decision
	fmt.Printf("  %s %d shares (confidence %.0f%%)\n", renderAction(d.Action), d.Quantity, d.Confidence*100)
	if d.Reasoning != "" {
		fmt.Println(dimStyle.Render("  " + d.Reasoning))
	}
}

// PrintError reports a per-ticker failure without stopping the run.
func PrintError(ticker string, err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("Error processing %s: %v", ticker, err)))
}

// PrintWarning surfaces a non-fatal notice.
func PrintWarning(msg string) {
	fmt.Println(neutralStyle.Render(msg))
}

func renderStance(stance string) string {
	switch stance {
	case models.StanceBullish:
		return bullishStyle.Render(stance)
	case models.StanceBearish:
		return bearishStyle.Render(stance)
	default:
		return neutralStyle.Render(stance)
	}
}

func renderAction(action string) string {
	switch action {
	case models.ActionBuy:
		return bullishStyle.Render(strings.ToUpper(action))
	case models.ActionSell:
		return bearishStyle.Render(strings.ToUpper(action))
	default:
		return neutralStyle.Render(strings.ToUpper(action))
	}
}
