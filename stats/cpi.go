package stats

import "math"

// CPITable maps a calendar year to its consumer price index value. Callers
// pass the table explicitly; it is reference data, not mutable state.
type CPITable map[int]float64

// DefaultCPITable returns the Austrian CPI series anchored at 100.0 for 2015.
// Sources: Statistik Austria CPI/HICP series; the 2025 value follows the OeNB
// inflation calculator.
func DefaultCPITable() CPITable {
	return CPITable{
		2015: 100.0,
		2016: 100.9,
		2017: 103.0,
		2018: 105.1,
		2019: 106.7,
		2020: 108.2,
		2021: 111.2,
		2022: 120.7,
		2023: 130.1,
		2024: 134.0,
		2025: 136.78,
	}
}

// Adjust converts a nominal price from baseYear into targetYear purchasing
// power, rounded to 2 decimal places. ok is false when either year is missing
// from the table.
func (t CPITable) Adjust(price float64, baseYear, targetYear int) (float64, bool) {
	cpiBase, okBase := t[baseYear]
	cpiTarget, okTarget := t[targetYear]
	if !okBase || !okTarget {
		return 0, false
	}
	return Round2(price * (cpiTarget / cpiBase)), true
}

// Round2 rounds to 2 decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
