// Package pipeline provides output writers for collected shop records.
package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ippon1/Reparaturbonus/models"
)

// Header is the column order of the collected dataset.
var Header = []string{"name", "address", "lats", "lons", "website", "archive_oldest", "archive_newest"}

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(shops []*models.Shop) error
	Close() error
	Validate() error
}

// TSVWriter writes records as tab-separated values.
type TSVWriter struct {
	file   *os.File
	writer *csv.Writer
	rows   int
	mu     sync.Mutex
}

// NewTSVWriter initialises a TSV writer and writes the header row.
func NewTSVWriter(filename string) (*TSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create tsv file: %w", err)
	}

	writer := csv.NewWriter(f)
	writer.Comma = '\t'
	if err := writer.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write tsv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush tsv header: %w", err)
	}

	return &TSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends shops to the TSV output. Absent archive dates serialize as
// empty cells.
func (tw *TSVWriter) Write(shops []*models.Shop) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	for _, shop := range shops {
		if err := tw.writer.Write(Record(shop)); err != nil {
			return fmt.Errorf("write tsv record: %w", err)
		}
		tw.rows++
	}
	tw.writer.Flush()
	if err := tw.writer.Error(); err != nil {
		return fmt.Errorf("flush tsv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (tw *TSVWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.writer.Flush()
	if err := tw.writer.Error(); err != nil {
		return fmt.Errorf("flush tsv writer: %w", err)
	}
	return tw.file.Close()
}

// Validate ensures the file has content besides the header.
func (tw *TSVWriter) Validate() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.rows == 0 {
		return fmt.Errorf("tsv file has no data rows")
	}
	return nil
}

// Record serializes a shop into the dataset column order.
func Record(shop *models.Shop) []string {
	oldest, newest := "", ""
	if shop.Archive.Found {
		oldest = shop.Archive.Oldest
		newest = shop.Archive.Newest
	}
	return []string{
		shop.Name,
		shop.Address,
		shop.Lats,
		shop.Lons,
		shop.Website,
		oldest,
		newest,
	}
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
