package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/restock/internal/model"
	"github.com/ppiankov/restock/internal/stock"
)

// prepare resets global CLI state so each test starts from defaults
func prepare(t *testing.T) *bytes.Buffer {
	t.Helper()

	viper.Reset()
	checkJSON = false
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("RESTOCK_NOTIFY_WEBHOOK_URL", "")

	for _, cmd := range []*cobra.Command{checkCmd, watchCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed && f.Value.Type() != "stringSlice" {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	return &out
}

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := prepare(t)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func storeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckCommand_InStockWithoutWebhook(t *testing.T) {
	server := storeServer(t, "<h1>Steam Deck</h1><button>Add to Cart</button>")

	out, err := execute(t, "check", "--url", server.URL, "--json")
	if err != nil {
		t.Fatalf("Expected success without webhook, got %v", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Expected JSON report, got %v:\n%s", err, out)
	}
	if report.Verdict != "in_stock" {
		t.Errorf("Expected in_stock, got %s", report.Verdict)
	}
	if report.Notification.Status != model.NotificationSkipped {
		t.Errorf("Expected notification skipped, got %s", report.Notification.Status)
	}
}

func TestCheckCommand_SendsWebhook(t *testing.T) {
	var hits atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()
	server := storeServer(t, "steam deck buy now")

	out, err := execute(t, "check", "--url", server.URL, "--webhook", webhook.URL)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("Expected one webhook post, got %d", hits.Load())
	}
	if !strings.Contains(out, "IN STOCK DETECTED") || !strings.Contains(out, "Notification sent") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
}

func TestCheckCommand_OutOfStock(t *testing.T) {
	server := storeServer(t, "steam deck sold out")

	out, err := execute(t, "check", "--url", server.URL)
	if err != nil {
		t.Fatalf("Expected success for out-of-stock page, got %v", err)
	}
	if !strings.Contains(out, "Still out of stock") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
}

func TestCheckCommand_InvalidPageFails(t *testing.T) {
	server := storeServer(t, "<html>captcha challenge</html>")

	_, err := execute(t, "check", "--url", server.URL)
	if !errors.Is(err, stock.ErrInvalidPage) {
		t.Fatalf("Expected ErrInvalidPage, got %v", err)
	}
}

func TestCheckCommand_WebhookFromEnvironment(t *testing.T) {
	var hits atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()
	server := storeServer(t, "steam deck add to bag")

	prepare(t)
	t.Setenv("DISCORD_WEBHOOK_URL", webhook.URL)
	rootCmd.SetArgs([]string{"check", "--url", server.URL, "--log-level", "error"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("Expected webhook from DISCORD_WEBHOOK_URL to be used, got %d posts", hits.Load())
	}
}

func TestConfigShow_RedactsWebhook(t *testing.T) {
	t.Setenv("RESTOCK_TARGET_ANCHOR", "widget pro")

	out := prepare(t)
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/secret")
	rootCmd.SetArgs([]string{"config", "show"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(out.String(), "secret") {
		t.Errorf("Expected webhook to be redacted:\n%s", out.String())
	}

	var cfg model.Config
	if err := yaml.Unmarshal(out.Bytes(), &cfg); err != nil {
		t.Fatalf("Expected YAML output, got %v", err)
	}
	if cfg.Target.Anchor != "widget pro" {
		t.Errorf("Expected env override for anchor, got %q", cfg.Target.Anchor)
	}
	if cfg.Target.URL != model.DefaultConfig().Target.URL {
		t.Errorf("Expected default URL, got %q", cfg.Target.URL)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected config file, got %v", err)
	}
	if !strings.HasPrefix(string(data), "# restock configuration") {
		t.Errorf("Expected header comment, got:\n%s", data)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Expected valid YAML, got %v", err)
	}
	if cfg.Target.Anchor != "steam deck" {
		t.Errorf("Expected default anchor, got %q", cfg.Target.Anchor)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when config already exists")
	}
}
