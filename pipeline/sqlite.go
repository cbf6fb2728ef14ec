package pipeline

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/ippon1/Reparaturbonus/models"
)

// SQLiteWriter persists collected shops into an embedded SQLite database.
type SQLiteWriter struct {
	db   *sql.DB
	rows int
	mu   sync.Mutex
}

// NewSQLiteWriter creates a fresh database file with a shops table matching
// the dataset columns.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	_ = os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite file: %w", err)
	}

	var defs []string
	for _, col := range Header {
		defs = append(defs, fmt.Sprintf("%q TEXT", col))
	}
	if _, err := db.Exec(`CREATE TABLE "shops" (` + strings.Join(defs, ",") + `)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create shops table: %w", err)
	}

	return &SQLiteWriter{db: db}, nil
}

// Write inserts shops inside a single transaction.
func (sw *SQLiteWriter) Write(shops []*models.Shop) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if len(shops) == 0 {
		return nil
	}

	tx, err := sw.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sqlite transaction: %w", err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(Header)), ",")
	var quoted []string
	for _, col := range Header {
		quoted = append(quoted, fmt.Sprintf("%q", col))
	}
	stmt, err := tx.Prepare(`INSERT INTO "shops" (` + strings.Join(quoted, ",") + `) VALUES (` + placeholders + `)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare shops insert: %w", err)
	}
	defer stmt.Close()

	for _, shop := range shops {
		record := Record(shop)
		args := make([]any, 0, len(record))
		for _, value := range record {
			args = append(args, value)
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert shop row: %w", err)
		}
		sw.rows++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite transaction: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (sw *SQLiteWriter) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.db.Close()
}

// Validate ensures the shops table has data.
func (sw *SQLiteWriter) Validate() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.rows == 0 {
		return fmt.Errorf("sqlite shops table is empty")
	}
	return nil
}
