// Package dataset loads the analyzer's tab-separated input table.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ippon1/Reparaturbonus/models"
)

// RequiredColumns are the columns the analyzer cannot run without. A missing
// required column is fatal and terminates the run.
var RequiredColumns = []string{
	"offers repair",
	"First Price",
	"Current Price",
	"First Price Date",
	"Current Price Date",
}

// Load reads a TSV file into immutable shop rows.
func Load(path string) ([]models.ShopRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Read parses TSV content from r. The first row must be a header containing
// every required column; extra columns are ignored.
func Read(r io.Reader) ([]models.ShopRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []models.ShopRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, models.ShopRow{
			Name:             field(record, "name"),
			OffersRepair:     field(record, "offers repair"),
			FirstPrice:       field(record, "First Price"),
			CurrentPrice:     field(record, "Current Price"),
			FirstPriceDate:   field(record, "First Price Date"),
			CurrentPriceDate: field(record, "Current Price Date"),
		})
	}
	return rows, nil
}
