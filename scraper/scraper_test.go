package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/ippon1/Reparaturbonus/config"
	"github.com/ippon1/Reparaturbonus/fetch"
	"github.com/ippon1/Reparaturbonus/models"
)

const overpassResponse = `{
  "elements": [
    {
      "type": "node",
      "id": 1,
      "tags": {
        "name": "Radhaus Wien",
        "shop": "bicycle",
        "website": "https://radhaus.example",
        "addr:street": "Lerchenfelder Gürtel",
        "addr:housenumber": "43",
        "addr:postcode": "1160",
        "addr:city": "Wien"
      }
    },
    {
      "type": "way",
      "id": 2,
      "tags": {
        "name": "Zweirad Eck",
        "shop": "bicycle"
      }
    },
    {
      "type": "node",
      "id": 3,
      "tags": {
        "name": "Citybike Laden",
        "shop": "bicycle",
        "website": "https://radhaus.example"
      }
    }
  ]
}`

const cdxResponse = `[
  ["urlkey","timestamp","original"],
  ["example","20190315120000","https://radhaus.example/"],
  ["example","20250110080000","https://radhaus.example/"]
]`

// collectingWriter captures written shops in memory.
type collectingWriter struct {
	shops []*models.Shop
}

func (cw *collectingWriter) Write(shops []*models.Shop) error {
	cw.shops = append(cw.shops, shops...)
	return nil
}

func (cw *collectingWriter) Close() error { return nil }

func (cw *collectingWriter) Validate() error { return nil }

func newTestScraper(t *testing.T, transport *httpmock.MockTransport) *Scraper {
	t.Helper()

	cfg := config.DefaultCollectorConfig()
	cfg.OverpassURL = "http://overpass.test/api"
	cfg.CDXBaseURL = "http://cdx.test/search"

	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}

	overpassFetcher, err := fetch.NewClient(5*time.Second, "test-agent", 0)
	if err != nil {
		t.Fatalf("new overpass fetcher: %v", err)
	}
	overpassFetcher.WithTransport(transport)

	archiveFetcher, err := fetch.NewClient(5*time.Second, "test-agent", 0)
	if err != nil {
		t.Fatalf("new archive fetcher: %v", err)
	}
	archiveFetcher.WithTransport(transport)

	if err := s.WithTransports(overpassFetcher, archiveFetcher); err != nil {
		t.Fatalf("with transports: %v", err)
	}
	return s
}

func TestWithTransportsInvalidCacheSize(t *testing.T) {
	cfg := config.DefaultCollectorConfig()
	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}

	fetcher, err := fetch.NewClient(5*time.Second, "test-agent", 0)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}

	s.cfg.CacheSize = 0
	if err := s.WithTransports(fetcher, fetcher); err == nil {
		t.Fatalf("expected error for non-positive cache size")
	}
}

func TestRun(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", `=~^http://overpass\.test/api`,
		httpmock.NewStringResponder(200, overpassResponse))
	transport.RegisterResponder("GET", `=~^http://cdx\.test/search`,
		httpmock.NewStringResponder(200, cdxResponse))

	s := newTestScraper(t, transport)
	writer := &collectingWriter{}

	result, err := s.Run(context.Background(), writer)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Elements != 3 || result.RowsWritten != 3 {
		t.Fatalf("elements/rows = %d/%d, want 3/3", result.Elements, result.RowsWritten)
	}
	if len(writer.shops) != 3 {
		t.Fatalf("written shops = %d, want 3", len(writer.shops))
	}

	first := writer.shops[0]
	if first.Name != "Radhaus Wien" {
		t.Errorf("first shop = %q", first.Name)
	}
	if want := "Lerchenfelder Gürtel 43, 1160 Wien"; first.Address != want {
		t.Errorf("address = %q, want %q", first.Address, want)
	}
	if !first.Archive.Found || first.Archive.Oldest != "2019-03-15" || first.Archive.Newest != "2025-01-10" {
		t.Errorf("archive span = %+v", first.Archive)
	}

	// No website: the span stays empty and no lookup is counted.
	second := writer.shops[1]
	if second.Archive.Found {
		t.Errorf("shop without website got span %+v", second.Archive)
	}

	// Third shop shares the first website, so the lookup is a cache hit.
	if result.Lookups != 2 {
		t.Errorf("lookups = %d, want 2", result.Lookups)
	}
	if result.CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", result.CacheHits)
	}
	if result.LookupFailures != 0 {
		t.Errorf("lookup failures = %d, want 0", result.LookupFailures)
	}

	// One Overpass call plus a single CDX call; the repeat came from cache.
	if got := transport.GetTotalCallCount(); got != 2 {
		t.Errorf("network calls = %d, want 2", got)
	}
}

func TestRunOverpassFailureIsFatal(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", `=~^http://overpass\.test/api`,
		httpmock.NewStringResponder(502, "bad gateway"))

	s := newTestScraper(t, transport)

	if _, err := s.Run(context.Background(), &collectingWriter{}); err == nil {
		t.Fatalf("expected error when the overpass query fails")
	}
}

func TestRunLookupFailureDegrades(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", `=~^http://overpass\.test/api`,
		httpmock.NewStringResponder(200, overpassResponse))
	transport.RegisterResponder("GET", `=~^http://cdx\.test/search`,
		httpmock.NewStringResponder(500, "index unavailable"))

	s := newTestScraper(t, transport)
	writer := &collectingWriter{}

	result, err := s.Run(context.Background(), writer)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RowsWritten != 3 {
		t.Fatalf("rows written = %d, want 3", result.RowsWritten)
	}
	// Error outcomes are not cached, so both website lookups fail.
	if result.LookupFailures != 2 {
		t.Errorf("lookup failures = %d, want 2", result.LookupFailures)
	}
	for _, shop := range writer.shops {
		if shop.Archive.Found {
			t.Errorf("shop %q got span %+v despite failing lookups", shop.Name, shop.Archive)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("POST", `=~^http://overpass\.test/api`,
		httpmock.NewStringResponder(200, overpassResponse))

	s := newTestScraper(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, &collectingWriter{})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if result != nil && result.RowsWritten != 0 {
		t.Errorf("rows written = %d, want 0", result.RowsWritten)
	}
}

func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	if m.Registry == nil {
		t.Fatalf("metrics registry is nil")
	}

	m.IncRequest("overpass")
	m.IncLookup("found")
	m.IncCacheHit()
	m.IncRows()
	m.IncError("timeout")
	m.ObserveDuration(120 * time.Millisecond)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("no metric families registered")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncRequest("overpass")
	m.IncLookup("found")
	m.IncCacheHit()
	m.IncRows()
	m.IncError("timeout")
	m.ObserveDuration(time.Second)
}
