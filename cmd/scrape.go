package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/logging"
	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
	"github.com/johannesgottschalk/hadithAnalyzer/internal/store"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Extracts one collection's volumes into checkpoints and datasets",
		Long: `Processes an inclusive volume range of the chosen collection on a
bounded worker pool. Volumes with an existing checkpoint are skipped, so an
interrupted run can simply be restarted.`,
		RunE: runScrapeCommand,
	}

	flags := cmd.Flags()
	flags.String("collection", "", "collection key to scrape (e.g. muslim, bukhari)")
	flags.Int("start", 1, "first volume (inclusive)")
	flags.Int("end", 0, "last volume (inclusive; 0 uses the collection default)")
	flags.Int("workers", 3, "concurrent volume workers (browser sessions are heavyweight)")
	flags.Duration("timeout", 0, "per-page wait for content blocks (0 uses the configured default)")
	flags.Bool("headless", true, "run the browser headless")
	flags.String("backend", "browser", "page access backend: browser or static")
	flags.String("checkpoint-dir", "checkpoints", "directory for per-volume checkpoints")
	flags.String("output-dir", ".", "directory for log, manifest and dataset files")
	flags.Bool("parquet", false, "additionally emit a parquet dataset")

	mustBind := func(key, flag string) {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
	mustBind("scraper.collection", "collection")
	mustBind("scraper.start", "start")
	mustBind("scraper.end", "end")
	mustBind("scraper.workers", "workers")
	mustBind("scraper.wait_timeout", "timeout")
	mustBind("scraper.headless", "headless")
	mustBind("scraper.backend", "backend")
	mustBind("scraper.checkpoint_dir", "checkpoint-dir")
	mustBind("scraper.output_dir", "output-dir")
	mustBind("scraper.parquet", "parquet")

	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	logger := logging.L

	collections, err := scrape.LoadCollections(v)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	key := v.GetString("scraper.collection")
	col, ok := collections[key]
	if !ok {
		return fmt.Errorf("unknown collection %q", key)
	}

	start := v.GetInt("scraper.start")
	end := v.GetInt("scraper.end")
	if end <= 0 {
		end = col.DefaultVolumes
		logger.Info("no end volume given, using collection default",
			zap.String("collection", key), zap.Int("end", end))
	}
	if start < 1 {
		return fmt.Errorf("start must be >= 1, got %d", start)
	}
	if start > end {
		return fmt.Errorf("start (%d) must not exceed end (%d)", start, end)
	}

	factory, err := buildSessionFactory(v, logger)
	if err != nil {
		return fmt.Errorf("init %s backend: %w", v.GetString("scraper.backend"), err)
	}
	defer factory.Close()

	outputDir := v.GetString("scraper.output_dir")
	checkpoints, err := store.NewCheckpointStore(v.GetString("scraper.checkpoint_dir"))
	if err != nil {
		return err
	}
	appendLog, err := store.OpenAppendLog(store.AppendLogPath(outputDir, key))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := appendLog.Close(); cerr != nil {
			logger.Warn("closing append log", zap.Error(cerr))
		}
	}()

	retry := scrape.NewRetryPolicy(
		v.GetInt("scraper.retry_attempts"),
		v.GetDuration("scraper.retry_base_delay"),
		v.GetFloat64("scraper.retry_backoff_factor"),
		scrape.IsTransient,
		logger,
	)
	walker := scrape.NewWalker(v.GetDuration("scraper.wait_timeout"), logger)
	worker := scrape.NewVolumeWorker(col, factory, walker, retry, checkpoints, appendLog, logger)

	ledger := store.NewLedger(store.NewManifestStore(store.ManifestPath(outputDir)))
	dataset := store.DatasetFiles{
		JSONPath:    store.DatasetPath(outputDir, key),
		ParquetPath: store.ColumnarPath(outputDir, key),
	}

	orch := scrape.NewOrchestrator(
		scrape.RunConfig{
			Collection:   col,
			Start:        start,
			End:          end,
			Concurrency:  v.GetInt("scraper.workers"),
			EmitColumnar: v.GetBool("scraper.parquet"),
		},
		worker, checkpoints, ledger, dataset, logger,
	)

	logger.Info("starting scrape",
		zap.String("collection", key),
		zap.Int("start", start),
		zap.Int("end", end),
		zap.Int("workers", v.GetInt("scraper.workers")),
		zap.String("backend", v.GetString("scraper.backend")),
	)
	return orch.Run(cmd.Context())
}

func buildSessionFactory(v *viper.Viper, logger *zap.Logger) (scrape.SessionFactory, error) {
	switch backend := v.GetString("scraper.backend"); backend {
	case "browser":
		return scrape.NewChromedpFactory(scrape.ChromedpConfig{
			Headless:  v.GetBool("scraper.headless"),
			UserAgent: v.GetString("scraper.user_agent"),
			HostQPS:   v.GetFloat64("scraper.host_qps"),
		}, logger)
	case "static":
		return scrape.NewStaticFactory(scrape.StaticConfig{
			UserAgent:      v.GetString("scraper.user_agent"),
			RequestTimeout: v.GetDuration("scraper.wait_timeout"),
			HostQPS:        v.GetFloat64("scraper.host_qps"),
		}, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q (want browser or static)", backend)
	}
}
