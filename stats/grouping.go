package stats

import (
	"sort"

	"github.com/ippon1/Reparaturbonus/models"
)

// ValueCount is one group in a categorical count.
type ValueCount struct {
	Value string
	Count int
}

// CountByOffersRepair counts rows per distinct "offers repair" value, sorted
// by value.
func CountByOffersRepair(rows []models.ShopRow) []ValueCount {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.OffersRepair]++
	}

	values := make([]string, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}
	sort.Strings(values)

	out := make([]ValueCount, 0, len(values))
	for _, value := range values {
		out = append(out, ValueCount{Value: value, Count: counts[value]})
	}
	return out
}

// CrossTab is the (offers repair, price_info) count matrix. Absent
// combinations hold 0.
type CrossTab struct {
	RowValues []string
	Columns   []PriceInfo
	Counts    map[string]map[PriceInfo]int
}

// Cell returns the count for one matrix cell.
func (ct CrossTab) Cell(rowValue string, column PriceInfo) int {
	if byColumn, ok := ct.Counts[rowValue]; ok {
		return byColumn[column]
	}
	return 0
}

// CrossTabulate pivots rows into the validity matrix. Row and column order is
// the sorted order of the values encountered.
func CrossTabulate(rows []models.ShopRow) CrossTab {
	counts := make(map[string]map[PriceInfo]int)
	columnSet := make(map[PriceInfo]struct{})

	for _, row := range rows {
		tag := Classify(row.FirstPrice, row.CurrentPrice)
		byColumn, ok := counts[row.OffersRepair]
		if !ok {
			byColumn = make(map[PriceInfo]int)
			counts[row.OffersRepair] = byColumn
		}
		byColumn[tag]++
		columnSet[tag] = struct{}{}
	}

	rowValues := make([]string, 0, len(counts))
	for value := range counts {
		rowValues = append(rowValues, value)
	}
	sort.Strings(rowValues)

	columns := make([]PriceInfo, 0, len(columnSet))
	for column := range columnSet {
		columns = append(columns, column)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })

	return CrossTab{RowValues: rowValues, Columns: columns, Counts: counts}
}
