package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/restock/internal/cache"
	"github.com/ppiankov/restock/internal/logger"
	"github.com/ppiankov/restock/internal/pipeline"
	"github.com/ppiankov/restock/internal/stock"
	"github.com/ppiankov/restock/internal/worker"
)

var watchNow bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check the product page on a schedule until interrupted",
	Long: `Watch runs the same check as 'restock check' on a cron schedule.

Every check is independent. A wrong page or a network failure is logged and
the next scheduled check runs as usual. After an alert is sent, further
alerts are suppressed for the cooldown period. Nothing is kept on disk.

Example:
  restock watch
  restock watch --schedule "*/5 * * * *" --cooldown 1h
  restock watch --schedule "@every 10m" --min-interval 2m`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchFlagKeys = map[string]string{
	"schedule":     "watch.schedule",
	"min-interval": "watch.min_interval",
	"cooldown":     "watch.cooldown",
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addCheckFlags(watchCmd)

	f := watchCmd.Flags()
	f.String("schedule", "*/15 * * * *", "cron schedule (5-field, or @every <duration>)")
	f.Duration("min-interval", time.Minute, "minimum time between two fetches")
	f.Duration("cooldown", 6*time.Hour, "suppress repeat alerts for this long after one is sent")
	f.BoolVar(&watchNow, "now", true, "run a check immediately on start")
}

func runWatch(cmd *cobra.Command, args []string) error {
	keys := make(map[string]string, len(checkFlagKeys)+len(watchFlagKeys))
	for k, v := range checkFlagKeys {
		keys[k] = v
	}
	for k, v := range watchFlagKeys {
		keys[k] = v
	}

	cfg, err := loadConfig(cmd, keys)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	scheduler := worker.NewScheduler(log)
	if err := scheduler.Validate(cfg.Watch.Schedule); err != nil {
		return err
	}

	policy := stock.NewCooldownPolicy(
		cache.NewMemoryCache(cfg.Watch.Cooldown, 10*time.Minute),
		cfg.Target.URL,
		cfg.Watch.Cooldown,
	)

	checker, err := pipeline.NewChecker(cfg, log, pipeline.WithPolicy(policy))
	if err != nil {
		return err
	}

	limiter := worker.NewLimiter(cfg.Watch.MinInterval)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Watching product page",
		logger.String("url", cfg.Target.URL),
		logger.String("schedule", cfg.Watch.Schedule),
		logger.Duration("cooldown", cfg.Watch.Cooldown),
		logger.Bool("webhook_configured", cfg.Notify.WebhookURL != ""),
	)

	return scheduler.Run(ctx, cfg.Watch.Schedule, watchNow, func(ctx context.Context) {
		if err := limiter.Wait(ctx, cfg.Target.URL); err != nil {
			log.Debug("Check skipped", logger.Error(err))
			return
		}

		report, err := checker.Check(ctx)
		if err != nil {
			// Checker already logged the details; keep watching
			return
		}
		log.Info("Check complete",
			logger.String("verdict", report.Verdict),
			logger.String("notification", string(report.Notification.Status)),
		)
	})
}
