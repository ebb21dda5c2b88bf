package repository

import (
	"sort"

	"github.com/stemsi/placement-dashboard/internal/model"
)

// BaselineFromRows groups flat rows into a baseline table. A row with an empty
// city is the state total; a state with only city rows keeps a zero total.
func BaselineFromRows(rows []model.RegionMetricRow) model.RegionBaseline {
	baseline := make(model.RegionBaseline)
	for _, row := range rows {
		totals, ok := baseline[row.State]
		if !ok {
			totals = model.RegionTotals{Cities: make(map[string]model.RegionMetric)}
		}
		if row.City == "" {
			totals.Total = row.RegionMetric
		} else {
			totals.Cities[row.City] = row.RegionMetric
		}
		baseline[row.State] = totals
	}
	return baseline
}

// RowsFromBaseline flattens a baseline table in state, city order.
func RowsFromBaseline(baseline model.RegionBaseline) []model.RegionMetricRow {
	rows := make([]model.RegionMetricRow, 0, len(baseline)*4)
	for state, totals := range baseline {
		rows = append(rows, model.RegionMetricRow{State: state, RegionMetric: totals.Total})
		for city, m := range totals.Cities {
			rows = append(rows, model.RegionMetricRow{State: state, City: city, RegionMetric: m})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].City < rows[j].City
	})
	return rows
}
