package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ppiankov/restock/internal/model"
	"github.com/ppiankov/restock/internal/util"
)

// ErrDisallowed is returned when robots.txt forbids fetching the page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrBodyTooLarge is returned when the page exceeds the configured body limit.
// A partial page could hide an out-of-stock phrase, so it is never classified.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// StatusError is returned for a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// PageFetcher retrieves a page body
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// Fetcher fetches pages with browser-like headers
type Fetcher struct {
	httpClient     *http.Client
	robots         *util.RobotsChecker // nil when robots.txt is not consulted
	userAgent      string
	accept         string
	acceptLanguage string
	maxBytes       int64
}

// NewFetcher creates a Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig) (*Fetcher, error) {
	transport, err := util.NewTransport(cfg.HTTPProxy, cfg.HTTPSProxy)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("stopped after 5 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient:     client,
		userAgent:      cfg.UserAgent,
		accept:         cfg.Accept,
		acceptLanguage: cfg.AcceptLanguage,
		maxBytes:       cfg.MaxBodyBytes,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(client, cfg.UserAgent)
	}
	return f, nil
}

// FetchResult contains the page body and response metadata
type FetchResult struct {
	Body string
	Meta model.FetchMeta
}

// Fetch retrieves the page at rawURL. Any non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	if f.accept != "" {
		req.Header.Set("Accept", f.accept)
	}
	if f.acceptLanguage != "" {
		req.Header.Set("Accept-Language", f.acceptLanguage)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%d bytes: %w", f.maxBytes, ErrBodyTooLarge)
	}

	return &FetchResult{
		Body: string(body),
		Meta: model.FetchMeta{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			FinalURL:    resp.Request.URL.String(),
		},
	}, nil
}
