package stats

import (
	"strings"
	"time"

	montana "github.com/montanaflynn/stats"

	"github.com/ippon1/Reparaturbonus/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02.01.2006",
}

// ParseDate parses a date field. ok is false for unparseable values; callers
// treat that as a null date.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// YesSubset returns the rows whose "offers repair" value case-insensitively
// starts with "yes".
func YesSubset(rows []models.ShopRow) []models.ShopRow {
	out := make([]models.ShopRow, 0, len(rows))
	for _, row := range rows {
		if strings.HasPrefix(strings.ToLower(row.OffersRepair), "yes") {
			out = append(out, row)
		}
	}
	return out
}

// Partition splits rows into the qualifying subset and the rest.
type Partition struct {
	Qualifying []models.ShopRow
	Rest       []models.ShopRow
}

// PartitionByDates qualifies rows whose first price date lies before the
// cutoff and whose current price date falls in currentYear. Rows with null
// dates fail the comparison and land in Rest.
func PartitionByDates(rows []models.ShopRow, cutoff time.Time, currentYear int) Partition {
	var p Partition
	for _, row := range rows {
		first, firstOK := ParseDate(row.FirstPriceDate)
		current, currentOK := ParseDate(row.CurrentPriceDate)
		if firstOK && currentOK && first.Before(cutoff) && current.Year() == currentYear {
			p.Qualifying = append(p.Qualifying, row)
		} else {
			p.Rest = append(p.Rest, row)
		}
	}
	return p
}

// IncreaseRow is one qualifying row with its derived price columns. Nil
// pointers are null cells: the value could not be computed for this row.
type IncreaseRow struct {
	Shop          models.ShopRow
	AdjustedFirst *float64
	IncreasePct   *float64
}

// ComputeIncreases derives the inflation-adjusted first price and the price
// increase percentage for each qualifying row. Each result is a new record;
// input rows are never mutated.
func ComputeIncreases(qualifying []models.ShopRow, cpi CPITable, targetYear int) []IncreaseRow {
	out := make([]IncreaseRow, 0, len(qualifying))
	for _, row := range qualifying {
		result := IncreaseRow{Shop: row}

		firstPrice, priceOK := ParseFloat(row.FirstPrice)
		firstDate, dateOK := ParseDate(row.FirstPriceDate)
		if priceOK && dateOK {
			if adjusted, ok := cpi.Adjust(firstPrice, firstDate.Year(), targetYear); ok {
				result.AdjustedFirst = &adjusted
			}
		}

		currentPrice, currentOK := ParseFloat(row.CurrentPrice)
		// An adjusted price of exactly 0 stays null rather than producing
		// an infinite ratio.
		if currentOK && result.AdjustedFirst != nil && *result.AdjustedFirst != 0 {
			increase := Round2((currentPrice - *result.AdjustedFirst) / *result.AdjustedFirst * 100)
			result.IncreasePct = &increase
		}

		out = append(out, result)
	}
	return out
}

// Summary reports the partition sizes and the mean and median of the
// non-null increase values. HasStats is false when no row produced a value.
type Summary struct {
	Qualifying int
	Rest       int
	Samples    int
	Mean       float64
	Median     float64
	HasStats   bool
}

// Summarize collects the run summary from a partition and its derived rows.
func Summarize(p Partition, increases []IncreaseRow) Summary {
	summary := Summary{
		Qualifying: len(p.Qualifying),
		Rest:       len(p.Rest),
	}

	values := make([]float64, 0, len(increases))
	for _, row := range increases {
		if row.IncreasePct != nil {
			values = append(values, *row.IncreasePct)
		}
	}
	summary.Samples = len(values)
	if len(values) == 0 {
		return summary
	}

	mean, err := montana.Mean(values)
	if err != nil {
		return summary
	}
	median, err := montana.Median(values)
	if err != nil {
		return summary
	}
	summary.Mean = mean
	summary.Median = median
	summary.HasStats = true
	return summary
}
