// Package models defines data structures shared by the collector and analyzer.
package models

import "time"

// ArchiveSpan holds the oldest and newest Wayback snapshot dates for a
// website, both in YYYY-MM-DD form. Found is false when the website was
// empty, the lookup failed, or the archive has no snapshots.
type ArchiveSpan struct {
	Oldest string `json:"oldest,omitempty"`
	Newest string `json:"newest,omitempty"`
	Found  bool   `json:"found"`
}

// Shop is one collected point-of-interest row. The Lats/Lons fields are read
// from the lattude/longitude tag keys, which OSM does not use, so they are
// usually empty; the published dataset format carries the columns anyway.
type Shop struct {
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Lats    string      `json:"lats"`
	Lons    string      `json:"lons"`
	Website string      `json:"website"`
	Archive ArchiveSpan `json:"archive"`
}

// ShopRow is one row of the analyzer's input table. All fields stay raw
// strings; numeric and date parsing happens per access and yields explicit
// optional results instead of mutating the row.
type ShopRow struct {
	Name             string
	OffersRepair     string
	FirstPrice       string
	CurrentPrice     string
	FirstPriceDate   string
	CurrentPriceDate string
}

// CollectResult summarises one collector run.
type CollectResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Elements       int
	RowsWritten    int
	Lookups        int
	CacheHits      int
	LookupFailures int
}
