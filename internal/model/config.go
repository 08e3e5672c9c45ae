package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the complete restock configuration.
// Values are read once per run and never mutated afterwards.
type Config struct {
	Target  TargetConfig  `mapstructure:"target" yaml:"target" json:"target"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http" json:"http"`
	Signals SignalsConfig `mapstructure:"signals" yaml:"signals" json:"signals"`
	Notify  NotifyConfig  `mapstructure:"notify" yaml:"notify" json:"notify"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch" json:"watch"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
}

// TargetConfig identifies the product page being watched
type TargetConfig struct {
	URL    string `mapstructure:"url" yaml:"url" json:"url"`
	Anchor string `mapstructure:"anchor" yaml:"anchor" json:"anchor"` // must appear on every good load of URL
	Name   string `mapstructure:"name" yaml:"name" json:"name"`
}

// HTTPConfig controls the page fetch
type HTTPConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language" yaml:"accept_language" json:"accept_language"`
	Accept         string        `mapstructure:"accept" yaml:"accept" json:"accept"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy      string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy     string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	RespectRobots  bool          `mapstructure:"respect_robots" yaml:"respect_robots" json:"respect_robots"`
}

// SignalsConfig holds the phrase lists fed to the classifier
type SignalsConfig struct {
	OutOfStock []string `mapstructure:"out_of_stock" yaml:"out_of_stock" json:"out_of_stock"`
	InStock    []string `mapstructure:"in_stock" yaml:"in_stock" json:"in_stock"`
	TextMode   TextMode `mapstructure:"text_mode" yaml:"text_mode" json:"text_mode"`
}

// TextMode selects which text the classifier inspects
type TextMode string

const (
	TextModeRaw     TextMode = "raw"     // whole response body, markup included
	TextModeVisible TextMode = "visible" // text nodes only, scripts and styles dropped
)

// NotifyConfig configures the webhook alert.
// An empty WebhookURL disables notification without being an error.
type NotifyConfig struct {
	WebhookURL string        `mapstructure:"webhook_url" yaml:"webhook_url,omitempty" json:"-"`
	Username   string        `mapstructure:"username" yaml:"username" json:"username"`
	Title      string        `mapstructure:"title" yaml:"title" json:"title"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// WatchConfig controls the long-running watch command
type WatchConfig struct {
	Schedule    string        `mapstructure:"schedule" yaml:"schedule" json:"schedule"`
	MinInterval time.Duration `mapstructure:"min_interval" yaml:"min_interval" json:"min_interval"`
	Cooldown    time.Duration `mapstructure:"cooldown" yaml:"cooldown" json:"cooldown"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level" json:"level"`
	Development bool   `mapstructure:"development" yaml:"development" json:"development"`
}

// DefaultUserAgent is a desktop Chrome UA; the store serves a different page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/121.0.0.0 Safari/537.36"

// DefaultConfig returns the Steam Deck watch configuration
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			URL:    "https://store.steampowered.com/steamdeck",
			Anchor: "steam deck",
			Name:   "Steam Deck OLED",
		},
		HTTP: HTTPConfig{
			Timeout:        30 * time.Second,
			UserAgent:      DefaultUserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
			Accept:         "text/html,application/xhtml+xml",
			MaxBodyBytes:   5_000_000,
		},
		Signals: SignalsConfig{
			OutOfStock: []string{"out of stock", "sold out", "currently unavailable"},
			InStock:    []string{"add to cart", "add to bag", "order now", "buy now"},
			TextMode:   TextModeRaw,
		},
		Notify: NotifyConfig{
			Username: "Steam Deck Stock Bot",
			Title:    "STEAM DECK OLED MAY BE BACK IN STOCK!",
			Timeout:  10 * time.Second,
		},
		Watch: WatchConfig{
			Schedule:    "*/15 * * * *",
			MinInterval: time.Minute,
			Cooldown:    6 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values no run can succeed with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.URL) == "" {
		return fmt.Errorf("target.url is required")
	}
	if _, err := url.ParseRequestURI(c.Target.URL); err != nil {
		return fmt.Errorf("target.url: %w", err)
	}
	if strings.TrimSpace(c.Target.Anchor) == "" {
		return fmt.Errorf("target.anchor is required")
	}
	if len(c.Signals.InStock) == 0 {
		return fmt.Errorf("signals.in_stock must list at least one phrase")
	}
	switch c.Signals.TextMode {
	case TextModeRaw, TextModeVisible:
	default:
		return fmt.Errorf("signals.text_mode %q is not one of raw, visible", c.Signals.TextMode)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be positive")
	}
	if c.Notify.WebhookURL != "" {
		if _, err := url.ParseRequestURI(c.Notify.WebhookURL); err != nil {
			return fmt.Errorf("notify.webhook_url: %w", err)
		}
		if c.Notify.Timeout <= 0 {
			return fmt.Errorf("notify.timeout must be positive")
		}
	}
	return nil
}
