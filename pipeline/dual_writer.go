package pipeline

import (
	"fmt"
	"sync"

	"github.com/ippon1/Reparaturbonus/models"
)

// DualWriter outputs to both TSV and SQLite simultaneously.
type DualWriter struct {
	tsvWriter    *TSVWriter
	sqliteWriter *SQLiteWriter
	mu           sync.Mutex
}

// NewDualWriter creates a dual writer for both output targets.
func NewDualWriter(tsvFilename, sqliteFilename string) (*DualWriter, error) {
	tsvWriter, err := NewTSVWriter(tsvFilename)
	if err != nil {
		return nil, fmt.Errorf("create tsv writer: %w", err)
	}

	sqliteWriter, err := NewSQLiteWriter(sqliteFilename)
	if err != nil {
		tsvWriter.Close()
		return nil, fmt.Errorf("create sqlite writer: %w", err)
	}

	return &DualWriter{
		tsvWriter:    tsvWriter,
		sqliteWriter: sqliteWriter,
	}, nil
}

// Write writes shops to both targets.
func (dw *DualWriter) Write(shops []*models.Shop) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.tsvWriter.Write(shops); err != nil {
		return fmt.Errorf("tsv write failed: %w", err)
	}
	if err := dw.sqliteWriter.Write(shops); err != nil {
		return fmt.Errorf("sqlite write failed: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	if err := dw.tsvWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("tsv close failed: %w", err))
	}
	if err := dw.sqliteWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sqlite close failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both outputs.
func (dw *DualWriter) Validate() error {
	var errs []error
	if err := dw.tsvWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tsv validation failed: %w", err))
	}
	if err := dw.sqliteWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sqlite validation failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}
