// Package stats implements the descriptive statistics over the shop table.
package stats

import (
	"strconv"
	"strings"

	"github.com/ippon1/Reparaturbonus/models"
)

// PriceInfo is the four-way price validity tag per row.
type PriceInfo string

const (
	PriceBoth        PriceInfo = "both"
	PriceOnlyFirst   PriceInfo = "only_first"
	PriceOnlyCurrent PriceInfo = "only_current"
	PriceNone        PriceInfo = "none"
)

// IsFloat reports whether a field value is a usable floating-point number.
// Empty strings, NaN sentinels, and parse failures all return false; the
// predicate is total and never panics.
func IsFloat(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	switch strings.ToLower(value) {
	case "nan", "+nan", "-nan":
		// ParseFloat would accept these, but a NaN cell means missing data.
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// ParseFloat parses a field value into a float, with ok=false under exactly
// the conditions IsFloat rejects.
func ParseFloat(value string) (float64, bool) {
	if !IsFloat(value) {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Classify maps the two price fields to the four-way validity tag.
func Classify(firstPrice, currentPrice string) PriceInfo {
	firstValid := IsFloat(firstPrice)
	currentValid := IsFloat(currentPrice)
	switch {
	case firstValid && currentValid:
		return PriceBoth
	case firstValid:
		return PriceOnlyFirst
	case currentValid:
		return PriceOnlyCurrent
	default:
		return PriceNone
	}
}

// ValidityCounts tallies rows per validity category.
type ValidityCounts struct {
	Both        int
	OnlyFirst   int
	OnlyCurrent int
	None        int
}

// Total returns the number of classified rows.
func (v ValidityCounts) Total() int {
	return v.Both + v.OnlyFirst + v.OnlyCurrent + v.None
}

// CountValidity classifies every row and tallies the categories.
func CountValidity(rows []models.ShopRow) ValidityCounts {
	var counts ValidityCounts
	for _, row := range rows {
		switch Classify(row.FirstPrice, row.CurrentPrice) {
		case PriceBoth:
			counts.Both++
		case PriceOnlyFirst:
			counts.OnlyFirst++
		case PriceOnlyCurrent:
			counts.OnlyCurrent++
		case PriceNone:
			counts.None++
		}
	}
	return counts
}
