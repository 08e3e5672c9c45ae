package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/restock/internal/model"
)

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderSummary writes a short human-readable summary of the report
func RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "Page loaded successfully: %d characters\n", report.ContentLength)
	fmt.Fprintf(w, "Out-of-stock matches: %s\n", listOrNone(report.OutOfStockMatches))
	fmt.Fprintf(w, "In-stock matches:     %s\n", listOrNone(report.InStockMatches))

	if report.Verdict != "in_stock" {
		fmt.Fprintf(w, "🔴 Still out of stock. Will check again next run.\n")
		return
	}

	fmt.Fprintf(w, "🟢 IN STOCK DETECTED!\n")
	switch report.Notification.Status {
	case model.NotificationSent:
		fmt.Fprintf(w, "Notification sent.\n")
	case model.NotificationSkipped, model.NotificationSuppressed:
		fmt.Fprintf(w, "Notification %s: %s.\n", report.Notification.Status, report.Notification.Reason)
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
