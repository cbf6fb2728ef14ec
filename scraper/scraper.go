// Package scraper drives the collect-enrich-write loop.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ippon1/Reparaturbonus/archive"
	"github.com/ippon1/Reparaturbonus/config"
	"github.com/ippon1/Reparaturbonus/fetch"
	"github.com/ippon1/Reparaturbonus/models"
	"github.com/ippon1/Reparaturbonus/overpass"
	"github.com/ippon1/Reparaturbonus/parser"
	"github.com/ippon1/Reparaturbonus/pipeline"
)

// Scraper queries Overpass, enriches each record with archive snapshot dates,
// and streams rows to the output writer. Records are processed strictly one
// at a time; the only bound on a run is the per-request timeout.
type Scraper struct {
	cfg      *config.CollectorConfig
	overpass *overpass.Client
	archive  *archive.Client
	Metrics  *Metrics
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.CollectorConfig) (*Scraper, error) {
	overpassFetcher, err := fetch.NewClient(cfg.Timeout, cfg.UserAgent, 0)
	if err != nil {
		return nil, fmt.Errorf("build overpass fetcher: %w", err)
	}
	archiveFetcher, err := fetch.NewClient(cfg.Timeout, cfg.UserAgent, cfg.LookupDelay)
	if err != nil {
		return nil, fmt.Errorf("build archive fetcher: %w", err)
	}
	archiveClient, err := archive.NewClient(archiveFetcher, cfg.CDXBaseURL, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("build archive client: %w", err)
	}

	return &Scraper{
		cfg:      cfg,
		overpass: overpass.NewClient(overpassFetcher, cfg.OverpassURL),
		archive:  archiveClient,
		Metrics:  NewMetrics(),
	}, nil
}

// WithTransports rebuilds both clients on the given fetchers, used by tests.
func (s *Scraper) WithTransports(overpassFetcher, archiveFetcher *fetch.Client) error {
	archiveClient, err := archive.NewClient(archiveFetcher, s.cfg.CDXBaseURL, s.cfg.CacheSize)
	if err != nil {
		return fmt.Errorf("build archive client: %w", err)
	}
	s.overpass = overpass.NewClient(overpassFetcher, s.cfg.OverpassURL)
	s.archive = archiveClient
	return nil
}

// Run executes one full collection pass. The Overpass query is fatal on
// failure; archive lookups degrade to empty spans and never abort the run.
func (s *Scraper) Run(ctx context.Context, writer pipeline.OutputWriter) (*models.CollectResult, error) {
	start := time.Now()

	queryStart := time.Now()
	s.Metrics.IncRequest("overpass")
	elements, err := s.overpass.QueryShops(ctx, s.cfg.Area, s.cfg.ShopCategory)
	s.Metrics.ObserveDuration(time.Since(queryStart))
	if err != nil {
		s.Metrics.IncError(fetch.Label(err))
		return nil, fmt.Errorf("query shops: %w", err)
	}

	slog.Info("overpass query done",
		slog.Int("elements", len(elements)),
		slog.String("area", s.cfg.Area),
		slog.String("shop", s.cfg.ShopCategory),
	)

	result := &models.CollectResult{
		StartTime: start,
		Elements:  len(elements),
	}

	for i, element := range elements {
		if err := ctx.Err(); err != nil {
			result.EndTime = time.Now()
			return result, err
		}

		shop := parser.ShopFromTags(element.Tags)

		lookupStart := time.Now()
		span, outcome, cacheHit := s.archive.Lookup(ctx, shop.Website)
		shop.Archive = span

		s.Metrics.IncLookup(string(outcome))
		if outcome != archive.OutcomeNoWebsite {
			result.Lookups++
		}
		if cacheHit {
			result.CacheHits++
			s.Metrics.IncCacheHit()
		} else if outcome != archive.OutcomeNoWebsite {
			s.Metrics.IncRequest("cdx")
			s.Metrics.ObserveDuration(time.Since(lookupStart))
		}
		if outcome == archive.OutcomeError {
			result.LookupFailures++
		}

		if err := writer.Write([]*models.Shop{shop}); err != nil {
			result.EndTime = time.Now()
			return result, fmt.Errorf("write shop row: %w", err)
		}
		result.RowsWritten++
		s.Metrics.IncRows()

		if (i+1)%25 == 0 {
			slog.Debug("collector progress",
				slog.Int("rows", i+1),
				slog.Int("total", len(elements)),
				slog.Int("cache_hits", result.CacheHits),
			)
		}
	}

	result.EndTime = time.Now()
	return result, nil
}
