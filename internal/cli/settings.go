package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/restock/internal/logger"
	"github.com/ppiankov/restock/internal/model"
)

// setDefaults registers every config key so env and file values are picked up
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("target.url", d.Target.URL)
	v.SetDefault("target.anchor", d.Target.Anchor)
	v.SetDefault("target.name", d.Target.Name)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.accept_language", d.HTTP.AcceptLanguage)
	v.SetDefault("http.accept", d.HTTP.Accept)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.respect_robots", d.HTTP.RespectRobots)

	v.SetDefault("signals.out_of_stock", d.Signals.OutOfStock)
	v.SetDefault("signals.in_stock", d.Signals.InStock)
	v.SetDefault("signals.text_mode", string(d.Signals.TextMode))

	v.SetDefault("notify.webhook_url", d.Notify.WebhookURL)
	v.SetDefault("notify.username", d.Notify.Username)
	v.SetDefault("notify.title", d.Notify.Title)
	v.SetDefault("notify.timeout", d.Notify.Timeout)

	v.SetDefault("watch.schedule", d.Watch.Schedule)
	v.SetDefault("watch.min_interval", d.Watch.MinInterval)
	v.SetDefault("watch.cooldown", d.Watch.Cooldown)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// checkFlagKeys maps flags shared by check and watch to config keys
var checkFlagKeys = map[string]string{
	"url":            "target.url",
	"anchor":         "target.anchor",
	"timeout":        "http.timeout",
	"ua":             "http.user_agent",
	"max-bytes":      "http.max_body_bytes",
	"http-proxy":     "http.http_proxy",
	"https-proxy":    "http.https_proxy",
	"respect-robots": "http.respect_robots",
	"out-of-stock":   "signals.out_of_stock",
	"in-stock":       "signals.in_stock",
	"text-mode":      "signals.text_mode",
	"webhook":        "notify.webhook_url",
	"notify-timeout": "notify.timeout",
}

// addCheckFlags registers the flags shared by check and watch.
// Defaults shown in help come from model.DefaultConfig; viper applies the real ones.
func addCheckFlags(cmd *cobra.Command) {
	d := model.DefaultConfig()
	f := cmd.Flags()

	f.String("url", d.Target.URL, "product page URL")
	f.String("anchor", d.Target.Anchor, "phrase that must appear on the page (sanity check)")
	f.Duration("timeout", d.HTTP.Timeout, "page fetch timeout")
	f.String("ua", d.HTTP.UserAgent, "HTTP User-Agent")
	f.Int64("max-bytes", d.HTTP.MaxBodyBytes, "max response bytes to read")
	f.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	f.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	f.Bool("respect-robots", d.HTTP.RespectRobots, "skip the fetch when robots.txt disallows it")
	f.StringSlice("out-of-stock", d.Signals.OutOfStock, "phrases that mean unavailable")
	f.StringSlice("in-stock", d.Signals.InStock, "phrases that mean purchasable")
	f.String("text-mode", string(d.Signals.TextMode), "text to inspect: raw (whole body) or visible (text nodes only)")
	f.String("webhook", "", "Discord webhook URL (default: $DISCORD_WEBHOOK_URL)")
	f.Duration("notify-timeout", d.Notify.Timeout, "notification post timeout")
}

// bindFlags binds a command's flags to their config keys.
// Binding happens at run time because check and watch share key names.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration for cmd
func loadConfig(cmd *cobra.Command, keys map[string]string) (*model.Config, error) {
	if err := bindFlags(cmd, keys); err != nil {
		return nil, err
	}

	cfg := &model.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
}
