package model

import "maps"

// RegionReport is the aggregated view of every record for one region.
//
// Total accumulates every value added, while the per-year mapping keeps only
// the last value added for each year. When the input holds two records for
// the same (region, year) pair, both count toward Total and toward the
// average numerator, but only the later one is visible per year. This
// mirrors the behavior downstream consumers of the report already rely on.
type RegionReport struct {
	// Region is the region identifier shared by all folded records.
	Region string `json:"region"`

	// Total is the running sum of all values for this region.
	Total float64 `json:"total"`

	// valuesByYear maps a year to the last value added for it.
	valuesByYear map[int]float64
}

// NewRegionReport creates an empty report for the given region.
func NewRegionReport(region string) *RegionReport {
	return &RegionReport{
		Region:       region,
		valuesByYear: make(map[int]float64),
	}
}

// Add folds one (year, value) pair into the report.
func (r *RegionReport) Add(year int, value float64) {
	r.Total += value
	r.valuesByYear[year] = value
}

// Value returns the value recorded for year, or 0 when the region has no
// record for that year.
func (r *RegionReport) Value(year int) float64 {
	return r.valuesByYear[year]
}

// YearCount returns the number of distinct years seen for the region.
func (r *RegionReport) YearCount() int {
	return len(r.valuesByYear)
}

// Average returns Total divided by the number of distinct years,
// or 0 when the report holds no years.
func (r *RegionReport) Average() float64 {
	if len(r.valuesByYear) == 0 {
		return 0
	}
	return r.Total / float64(len(r.valuesByYear))
}

// ValuesByYear returns a copy of the per-year values.
func (r *RegionReport) ValuesByYear() map[int]float64 {
	return maps.Clone(r.valuesByYear)
}

// RestoreRegionReport rebuilds a finalized report from stored values.
// It is used when reading reports back from the history database, where
// the total cannot be recomputed from the per-year values.
func RestoreRegionReport(region string, total float64, valuesByYear map[int]float64) *RegionReport {
	r := NewRegionReport(region)
	r.Total = total
	for year, value := range valuesByYear {
		r.valuesByYear[year] = value
	}
	return r
}
