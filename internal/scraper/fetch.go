package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/nba-rank/internal/logger"
)

const (
	UserAgent = "nba-rank/1.0 (github.com/pfrederiksen/nba-rank)"
)

// ErrStatus is wrapped by fetch errors caused by a non-200 response.
var ErrStatus = errors.New("unexpected status code")

// Fetcher returns a parsed HTML document for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetchOptions tunes an HTTPFetcher. The zero value fetches serially with no
// timeout and no retries.
type FetchOptions struct {
	Timeout   time.Duration // per request; 0 disables
	Retries   int           // extra attempts after the first; 0 disables
	Interval  time.Duration // minimum gap between requests
	UserAgent string
}

// HTTPFetcher fetches pages over HTTP, one request at a time.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	retries     int
	interval    time.Duration
	lastRequest time.Time
}

// NewHTTPFetcher creates an HTTPFetcher from opts.
func NewHTTPFetcher(opts FetchOptions) *HTTPFetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: ua,
		retries:   retries,
		interval:  opts.Interval,
	}
}

// Fetch downloads url and parses it as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	var doc *goquery.Document
	op := func() error {
		var err error
		doc, err = f.get(ctx, url)
		return err
	}

	var policy backoff.BackOff = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(f.retries))
	notify := func(err error, next time.Duration) {
		logger.Warn("retrying fetch", logger.Fields{
			"url":     url,
			"wait_ms": next.Milliseconds(),
			"error":   err.Error(),
		})
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		logger.IncrCounter("fetch.errors")
		return nil, err
	}
	return doc, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (*goquery.Document, error) {
	start := time.Now()
	defer func() {
		f.lastRequest = time.Now()
		logger.RecordTiming("fetch.duration", time.Since(start))
	}()
	logger.IncrCounter("fetch.requests")
	logger.Debug("fetching page", logger.Fields{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d for %s", ErrStatus, resp.StatusCode, url)
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parsing HTML from %s: %w", url, err))
	}
	return doc, nil
}

// wait blocks until the configured interval since the previous request has passed.
func (f *HTTPFetcher) wait(ctx context.Context) error {
	if f.interval <= 0 || f.lastRequest.IsZero() {
		return nil
	}
	remaining := f.interval - time.Since(f.lastRequest)
	if remaining <= 0 {
		return nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
