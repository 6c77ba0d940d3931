// Package cmd defines and implements the CLI commands for the hadithanalyzer executable.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/logging"
	"github.com/johannesgottschalk/hadithAnalyzer/pkg/config"
)

var (
	cfgFile   string
	verbosity int
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hadithanalyzer",
		Short: "Resumable extraction of hadith citations and narration chains.",
		Long: `hadithanalyzer extracts structured hadith records from a paginated,
multi-volume web source. Volumes are processed by concurrent workers with
retry and checkpoint-based resume; each record carries its recovered
narration chain (isnad) alongside the bilingual text.`,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.InitLogger(verbosity)
		},
	}

	// Initialize Viper configuration.
	cobra.OnInitialize(func() {
		config.InitConfig(cfgFile)
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hadithanalyzer/config.yaml)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log detail (repeatable)")

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point. The run context cancels cooperatively on
// SIGINT/SIGTERM so in-flight volumes finish their current page.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.L.Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
