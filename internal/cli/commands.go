package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dquant/hedgego/internal/config"
	"github.com/dquant/hedgego/internal/dataflows"
	"github.com/dquant/hedgego/internal/display"
	"github.com/dquant/hedgego/internal/graph"
	"github.com/dquant/hedgego/internal/logger"
	"github.com/dquant/hedgego/internal/trading"
)

// NewRootCmd creates the root command for the hedge fund runner.
func NewRootCmd() *cobra.Command {
	var (
		tickers       []string
		configPath    string
		startDate     string
		endDate       string
		showReasoning bool
		debug         bool
	)

	rootCmd := &cobra.Command{
		Use:   "hedgego",
		Short: "HedgeGo - multi-agent trading decisions",
		Long: `HedgeGo wires a team of analyst agents, a risk management step, and a
portfolio management step into a workflow graph and runs it once per ticker
to produce a trading decision.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			log := logger.New(debug)

			cfg, err := config.Resolve(tickers, configPath, startDate, endDate, showReasoning, time.Now())
			if err != nil {
				return err
			}

			selection, fellBack := SelectAnalysts()
			if fellBack {
				display.PrintWarning("No analysts selected. Using all analysts by default.")
			} else {
				display.PrintWarning("Selected analysts: " + strings.Join(selection, ", "))
			}

			builder := graph.NewBuilder(dataflows.NewLiveProvider())
			session := trading.NewSession(builder, log)

			return session.RunAll(cmd.Context(), cfg, selection, display.ConsoleReporter{})
		},
	}

	rootCmd.Flags().StringSliceVar(&tickers, "tickers", nil, "One or more stock ticker symbols")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML configuration file")
	rootCmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD). Defaults to 3 months before end date")
	rootCmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD). Defaults to today")
	rootCmd.Flags().BoolVar(&showReasoning, "show-reasoning", false, "Show reasoning from each agent")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return rootCmd
}
