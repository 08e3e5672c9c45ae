package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/restock/internal/pipeline"
)

var checkJSON bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the product page once and alert if it is in stock",
	Long: `Check fetches the product page once and classifies it:
- The page must contain the anchor phrase, otherwise the run fails
- Every configured in-stock and out-of-stock phrase is looked up
- In stock means at least one in-stock phrase and no out-of-stock phrase
- When in stock and a webhook is configured, a Discord alert is posted

Example:
  restock check
  DISCORD_WEBHOOK_URL=https://discord.com/api/webhooks/... restock check
  restock check --url https://store.example.com/item --anchor "widget pro" --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the check report as JSON on stdout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, checkFlagKeys)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker, err := pipeline.NewChecker(cfg, log)
	if err != nil {
		return err
	}

	// A report can come back together with a notifier error; show it either way
	report, err := checker.Check(ctx)
	if report != nil {
		if checkJSON {
			if rerr := pipeline.RenderJSON(cmd.OutOrStdout(), report); rerr != nil {
				return rerr
			}
		} else {
			pipeline.RenderSummary(cmd.OutOrStdout(), report)
		}
	}
	return err
}
