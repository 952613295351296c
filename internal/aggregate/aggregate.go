package aggregate

import (
	"slices"
	"strings"

	"github.com/nao1215/regionreport/internal/model"
)

// Regions groups records by region and returns one report per distinct
// region, sorted by region name in ascending byte order.
//
// Records are folded in input order, so when two records share a
// (region, year) pair the later one wins in the per-year values while
// both are added to the total.
func Regions(records []model.Record) []*model.RegionReport {
	byRegion := make(map[string]*model.RegionReport)
	order := make([]string, 0)

	for _, rec := range records {
		report, ok := byRegion[rec.Region]
		if !ok {
			report = model.NewRegionReport(rec.Region)
			byRegion[rec.Region] = report
			order = append(order, rec.Region)
		}
		report.Add(rec.Year, rec.Value)
	}

	reports := make([]*model.RegionReport, 0, len(order))
	for _, region := range order {
		reports = append(reports, byRegion[region])
	}

	SortByRegion(reports)
	return reports
}

// SortByRegion sorts reports in place by region name.
func SortByRegion(reports []*model.RegionReport) {
	slices.SortStableFunc(reports, func(a, b *model.RegionReport) int {
		return strings.Compare(a.Region, b.Region)
	})
}
