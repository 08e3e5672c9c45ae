package model

import "time"

// Report is the outcome of one stock check.
// It is built fresh for every run and never persisted.
type Report struct {
	Target    string    `json:"target"`     // display name of the product
	SourceURL string    `json:"source_url"` // URL that was fetched
	CheckedAt time.Time `json:"checked_at"`
	FetchMeta FetchMeta `json:"fetch_meta"`

	ContentLength     int      `json:"content_length"`      // characters inspected by the classifier
	OutOfStockMatches []string `json:"out_of_stock_matches"` // in phrase-list order
	InStockMatches    []string `json:"in_stock_matches"`     // in phrase-list order
	Verdict           string   `json:"verdict"`

	Notification Notification `json:"notification"`
}

// FetchMeta contains HTTP metadata from fetching the page
type FetchMeta struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	FinalURL    string `json:"final_url,omitempty"`
}

// Notification records what happened to the alert for this run
type Notification struct {
	Status NotificationStatus `json:"status"`
	Reason string             `json:"reason,omitempty"`
}

// NotificationStatus classifies the alert outcome
type NotificationStatus string

const (
	NotificationNotNeeded  NotificationStatus = "not_needed" // verdict did not call for an alert
	NotificationSent       NotificationStatus = "sent"
	NotificationSkipped    NotificationStatus = "skipped"    // alert wanted but no webhook configured
	NotificationSuppressed NotificationStatus = "suppressed" // alert wanted but inside cooldown
)

// Skip reasons reported alongside NotificationSkipped and NotificationSuppressed
const (
	ReasonNoWebhook = "no webhook configured"
	ReasonCooldown  = "alert cooldown active"
)
