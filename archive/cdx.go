// Package archive looks up Wayback Machine snapshot spans via the CDX API.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ippon1/Reparaturbonus/fetch"
	"github.com/ippon1/Reparaturbonus/models"
)

const DefaultBaseURL = "https://web.archive.org/cdx/search/cdx"

// Outcome labels the result of a single lookup for logs and metrics.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNoWebsite   Outcome = "no_website"
	OutcomeNoSnapshots Outcome = "no_snapshots"
	OutcomeError       Outcome = "error"
)

// Client queries the CDX index and caches results per website. Lookups never
// fail the run: every error path degrades to an empty span.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	cache   *lru.Cache[string, models.ArchiveSpan]
}

// NewClient builds a CDX client with an LRU result cache. An empty baseURL
// falls back to the public index.
func NewClient(fetcher *fetch.Client, baseURL string, cacheSize int) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	cache, err := lru.New[string, models.ArchiveSpan](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}
	return &Client{baseURL: baseURL, fetcher: fetcher, cache: cache}, nil
}

// Lookup resolves the oldest and newest snapshot dates for a website.
// An empty website returns immediately without a network call. The second
// return value reports whether the result came from the cache.
func (c *Client) Lookup(ctx context.Context, website string) (models.ArchiveSpan, Outcome, bool) {
	if website == "" {
		return models.ArchiveSpan{}, OutcomeNoWebsite, false
	}
	if cached, ok := c.cache.Get(website); ok {
		outcome := OutcomeNoSnapshots
		if cached.Found {
			outcome = OutcomeFound
		}
		return cached, outcome, true
	}
	if err := ctx.Err(); err != nil {
		return models.ArchiveSpan{}, OutcomeError, false
	}

	span, outcome := c.query(website)
	if outcome != OutcomeError {
		c.cache.Add(website, span)
	}
	return span, outcome, false
}

func (c *Client) query(website string) (models.ArchiveSpan, Outcome) {
	params := url.Values{}
	params.Set("url", website)
	params.Set("output", "json")

	resp, err := c.fetcher.Get(c.baseURL, params)
	if err != nil {
		slog.Warn("archive lookup failed",
			slog.String("website", website),
			slog.String("category", fetch.Label(err)),
			slog.Any("error", err),
		)
		return models.ArchiveSpan{}, OutcomeError
	}

	var rows [][]string
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		slog.Warn("archive response malformed",
			slog.String("website", website),
			slog.Any("error", err),
		)
		return models.ArchiveSpan{}, OutcomeError
	}

	// Row 0 is the CDX header, data rows carry the capture timestamp in
	// column 1.
	if len(rows) < 2 {
		return models.ArchiveSpan{}, OutcomeNoSnapshots
	}
	timestamps := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		timestamps = append(timestamps, row[1])
	}
	if len(timestamps) == 0 {
		return models.ArchiveSpan{}, OutcomeNoSnapshots
	}

	// Plain string sort is enough for fixed-width numeric timestamps.
	sort.Strings(timestamps)

	oldest, okOldest := FormatTimestamp(timestamps[0])
	newest, okNewest := FormatTimestamp(timestamps[len(timestamps)-1])
	if !okOldest || !okNewest {
		return models.ArchiveSpan{}, OutcomeError
	}
	return models.ArchiveSpan{Oldest: oldest, Newest: newest, Found: true}, OutcomeFound
}

// FormatTimestamp reformats a 14-digit compact capture timestamp
// (YYYYMMDDhhmmss) to a YYYY-MM-DD date string.
func FormatTimestamp(ts string) (string, bool) {
	if len(ts) < 8 {
		return "", false
	}
	for _, r := range ts[:8] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return ts[:4] + "-" + ts[4:6] + "-" + ts[6:8], true
}
