package pipeline

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ippon1/Reparaturbonus/models"
)

func sampleShops() []*models.Shop {
	return []*models.Shop{
		{
			Name:    "Radhaus Wien",
			Address: "Lerchenfelder Gürtel 43, 1160 Wien",
			Website: "https://radhaus.example",
			Archive: models.ArchiveSpan{Oldest: "2019-03-15", Newest: "2025-01-10", Found: true},
		},
		{
			Name:    "Zweirad Eck",
			Address: "Favoritenstraße 12, 1040 Wien",
		},
	}
}

func readTSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open tsv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read tsv: %v", err)
	}
	return records
}

func TestTSVWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.tsv")

	writer, err := NewTSVWriter(path)
	if err != nil {
		t.Fatalf("new tsv writer: %v", err)
	}
	if err := writer.Write(sampleShops()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	records := readTSV(t, path)
	if len(records) != 3 {
		t.Fatalf("record count = %d, want 3 (header + 2 rows)", len(records))
	}
	for i, col := range Header {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "Radhaus Wien" || records[1][5] != "2019-03-15" || records[1][6] != "2025-01-10" {
		t.Errorf("first row = %v", records[1])
	}
	// No archive span: the date cells stay empty.
	if records[2][0] != "Zweirad Eck" || records[2][5] != "" || records[2][6] != "" {
		t.Errorf("second row = %v", records[2])
	}
}

func TestTSVWriterValidateEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tsv")

	writer, err := NewTSVWriter(path)
	if err != nil {
		t.Fatalf("new tsv writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation error for header-only file")
	}
}

func TestTSVWriterCreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "shops.tsv")

	writer, err := NewTSVWriter(path)
	if err != nil {
		t.Fatalf("new tsv writer: %v", err)
	}
	writer.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestSQLiteWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.db")

	writer, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	if err := writer.Write(sampleShops()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "shops"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("row count = %d, want 2", count)
	}

	var name, oldest string
	row := db.QueryRow(`SELECT "name", "archive_oldest" FROM "shops" WHERE "name" = ?`, "Radhaus Wien")
	if err := row.Scan(&name, &oldest); err != nil {
		t.Fatalf("scan row: %v", err)
	}
	if oldest != "2019-03-15" {
		t.Fatalf("archive_oldest = %q, want 2019-03-15", oldest)
	}
}

func TestSQLiteWriterValidateEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	writer, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation error for empty table")
	}
}

func TestDualWriter(t *testing.T) {
	dir := t.TempDir()
	tsvPath := filepath.Join(dir, "shops.tsv")
	dbPath := filepath.Join(dir, "shops.db")

	writer, err := NewDualWriter(tsvPath, dbPath)
	if err != nil {
		t.Fatalf("new dual writer: %v", err)
	}
	if err := writer.Write(sampleShops()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if records := readTSV(t, tsvPath); len(records) != 3 {
		t.Errorf("tsv record count = %d, want 3", len(records))
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "shops"`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("sqlite row count = %d, want 2", count)
	}
}

func TestRecord(t *testing.T) {
	shop := &models.Shop{
		Name: "Radhaus Wien",
		// Span dates are ignored unless Found is set.
		Archive: models.ArchiveSpan{Oldest: "2019-03-15", Newest: "2025-01-10"},
	}
	record := Record(shop)
	if len(record) != len(Header) {
		t.Fatalf("record width = %d, want %d", len(record), len(Header))
	}
	if record[5] != "" || record[6] != "" {
		t.Errorf("unfound span serialized as %q/%q, want empty", record[5], record[6])
	}
}
