package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/restock/internal/extract"
	"github.com/ppiankov/restock/internal/logger"
	"github.com/ppiankov/restock/internal/model"
	"github.com/ppiankov/restock/internal/notify"
	"github.com/ppiankov/restock/internal/stock"
)

// Checker runs one stock check: fetch, validate, classify, decide, notify.
// It holds no state between checks other than what its AlertPolicy keeps.
type Checker struct {
	fetcher    PageFetcher
	classifier *stock.Classifier
	policy     stock.AlertPolicy
	notifier   notify.Notifier // nil when no webhook is configured
	log        logger.Logger
	target     model.TargetConfig
	textMode   model.TextMode
	alert      notify.Alert
}

// Option customizes a Checker
type Option func(*Checker)

// WithPolicy replaces the default ImmediatePolicy
func WithPolicy(policy stock.AlertPolicy) Option {
	return func(c *Checker) { c.policy = policy }
}

// WithNotifier sets the notifier; without one in-stock alerts are skipped
func WithNotifier(n notify.Notifier) Option {
	return func(c *Checker) { c.notifier = n }
}

// WithFetcher replaces the HTTP fetcher
func WithFetcher(f PageFetcher) Option {
	return func(c *Checker) { c.fetcher = f }
}

// NewChecker builds a Checker from configuration. The default notifier is a
// Discord webhook when cfg.Notify.WebhookURL is set.
func NewChecker(cfg *model.Config, log logger.Logger, opts ...Option) (*Checker, error) {
	c := &Checker{
		classifier: stock.NewClassifier(cfg.Target.Anchor, stock.SignalSet{
			OutOfStock: cfg.Signals.OutOfStock,
			InStock:    cfg.Signals.InStock,
		}),
		policy:   stock.ImmediatePolicy{},
		log:      log,
		target:   cfg.Target,
		textMode: cfg.Signals.TextMode,
		alert: notify.Alert{
			Title: cfg.Notify.Title,
			URL:   cfg.Target.URL,
		},
	}

	if cfg.Notify.WebhookURL != "" {
		c.notifier = notify.NewDiscordNotifier(cfg.Notify.WebhookURL, cfg.Notify.Username, cfg.Notify.Timeout)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		f, err := NewFetcher(cfg.HTTP)
		if err != nil {
			return nil, fmt.Errorf("create fetcher: %w", err)
		}
		c.fetcher = f
	}

	return c, nil
}

// Check performs one full check. The returned error is nil for any completed
// classification, in stock or not. A *stock.InvalidPageError means the wrong
// page came back; other errors come from the fetch or the notifier.
func (c *Checker) Check(ctx context.Context) (*model.Report, error) {
	log := c.log.With(logger.String("url", c.target.URL))

	fetched, err := c.fetcher.Fetch(ctx, c.target.URL)
	if err != nil {
		log.Error("Failed to fetch page", logger.Error(err))
		return nil, fmt.Errorf("fetch: %w", err)
	}

	text, err := c.inspectedText(fetched.Body)
	if err != nil {
		log.Error("Failed to extract page text", logger.Error(err))
		return nil, err
	}

	valid, err := c.classifier.Validate(text)
	if err != nil {
		var invalid *stock.InvalidPageError
		if errors.As(err, &invalid) {
			invalid.StatusCode = fetched.Meta.StatusCode
			log.Error("Page does not contain expected content",
				logger.String("anchor", invalid.Anchor),
				logger.Int("status_code", invalid.StatusCode),
				logger.Int("content_length", invalid.Length),
			)
		}
		return nil, err
	}

	result := c.classifier.Classify(valid)

	report := &model.Report{
		Target:            c.target.Name,
		SourceURL:         c.target.URL,
		CheckedAt:         time.Now().UTC(),
		FetchMeta:         fetched.Meta,
		ContentLength:     valid.Len(),
		OutOfStockMatches: result.OutOfStock,
		InStockMatches:    result.InStock,
		Verdict:           result.Verdict.String(),
		Notification:      model.Notification{Status: model.NotificationNotNeeded},
	}

	log.Info("Page loaded",
		logger.Int("status_code", fetched.Meta.StatusCode),
		logger.Int("content_length", report.ContentLength),
		logger.Strings("out_of_stock_matches", result.OutOfStock),
		logger.Strings("in_stock_matches", result.InStock),
		logger.String("verdict", report.Verdict),
	)

	if result.Verdict != stock.InStock {
		log.Info("Still out of stock")
		return report, nil
	}

	log.Info("In stock detected")

	if !c.policy.ShouldAlert(result) {
		report.Notification = model.Notification{Status: model.NotificationSuppressed, Reason: model.ReasonCooldown}
		log.Info("Notification suppressed", logger.String("reason", model.ReasonCooldown))
		return report, nil
	}

	if c.notifier == nil {
		report.Notification = model.Notification{Status: model.NotificationSkipped, Reason: model.ReasonNoWebhook}
		log.Warn("Notification skipped", logger.String("reason", model.ReasonNoWebhook))
		return report, nil
	}

	if err := c.notifier.Send(ctx, c.alert); err != nil {
		log.Error("Failed to send notification", logger.Error(err))
		return report, fmt.Errorf("notify: %w", err)
	}

	c.policy.Sent(result)
	report.Notification = model.Notification{Status: model.NotificationSent}
	log.Info("Notification sent")

	return report, nil
}

// inspectedText returns the text the classifier should see for the configured mode
func (c *Checker) inspectedText(body string) (string, error) {
	if c.textMode != model.TextModeVisible {
		return body, nil
	}
	text, err := extract.VisibleText(body)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}
