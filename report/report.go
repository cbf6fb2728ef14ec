// Package report renders the analyzer's console output.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ippon1/Reparaturbonus/models"
	"github.com/ippon1/Reparaturbonus/stats"
)

// Report holds every table and summary the analyzer prints.
type Report struct {
	Offers   []stats.ValueCount
	Validity stats.ValidityCounts
	CrossTab stats.CrossTab
	Rows     []stats.IncreaseRow
	Summary  stats.Summary
}

// Build computes the full report over the loaded table.
func Build(rows []models.ShopRow, cpi stats.CPITable, cutoff time.Time, currentYear, targetYear int) Report {
	yes := stats.YesSubset(rows)
	partition := stats.PartitionByDates(yes, cutoff, currentYear)
	increases := stats.ComputeIncreases(partition.Qualifying, cpi, targetYear)

	return Report{
		Offers:   stats.CountByOffersRepair(rows),
		Validity: stats.CountValidity(rows),
		CrossTab: stats.CrossTabulate(rows),
		Rows:     increases,
		Summary:  stats.Summarize(partition, increases),
	}
}

// Render prints the report tables and summary lines. The output is meant for
// humans, not machines.
func (r Report) Render(w io.Writer) {
	offers := tablewriter.NewWriter(w)
	offers.SetHeader([]string{"offers repair", "Count"})
	offersTotal := 0
	for _, group := range r.Offers {
		offers.Append([]string{group.Value, strconv.Itoa(group.Count)})
		offersTotal += group.Count
	}
	offers.Render()
	fmt.Fprintf(w, "Total entries in 'offers repair' grouping: %d\n", offersTotal)

	fmt.Fprintln(w, "--")

	validity := tablewriter.NewWriter(w)
	validity.SetHeader([]string{"Category", "Count"})
	validity.Append([]string{"Both prices valid", strconv.Itoa(r.Validity.Both)})
	validity.Append([]string{"Only first price", strconv.Itoa(r.Validity.OnlyFirst)})
	validity.Append([]string{"Only current price", strconv.Itoa(r.Validity.OnlyCurrent)})
	validity.Append([]string{"Neither price", strconv.Itoa(r.Validity.None)})
	validity.Render()
	fmt.Fprintf(w, "Total entries in price data validity grouping: %d\n", r.Validity.Total())

	crossTab := tablewriter.NewWriter(w)
	header := []string{"offers repair"}
	for _, column := range r.CrossTab.Columns {
		header = append(header, string(column))
	}
	crossTab.SetHeader(header)
	for _, rowValue := range r.CrossTab.RowValues {
		record := []string{rowValue}
		for _, column := range r.CrossTab.Columns {
			record = append(record, strconv.Itoa(r.CrossTab.Cell(rowValue, column)))
		}
		crossTab.Append(record)
	}
	crossTab.Render()

	fmt.Fprintln(w, "--")
	fmt.Fprintf(w, "Valid data: %d\n", r.Summary.Qualifying)
	fmt.Fprintf(w, "Rest: %d\n", r.Summary.Rest)

	if r.Summary.HasStats {
		fmt.Fprintf(w, "Average price increase: %.2f%%\n", r.Summary.Mean)
		fmt.Fprintf(w, "Median price increase: %.2f%%\n", r.Summary.Median)
	} else {
		fmt.Fprintln(w, "Average price increase: n/a")
		fmt.Fprintln(w, "Median price increase: n/a")
	}
}
