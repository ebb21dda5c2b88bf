// Package projector scopes the dashboard's program-wide datasets to a selected region.
//
// A region's totals are looked up in the baseline table and the reference
// datasets are rescaled so that their proportions are kept while their
// magnitudes follow the region. Every function here is pure.
package projector

import (
	"math"

	"github.com/stemsi/placement-dashboard/internal/model"
)

// Projection is the set of chart datasets for one selection.
type Projection struct {
	ApplicationStatus  []model.Category     `json:"application_status"`
	CompanyStatus      []model.Category     `json:"company_status"`
	MonthlyTrends      []model.MonthlyTrend `json:"monthly_trends"`
	SectorDistribution []model.SectorShare  `json:"sector_distribution"`
}

// Paired is a series record with two rescalable counts.
type Paired[T any] interface {
	Pair() (int, int)
	WithPair(a, b int) T
}

// ResolveMetric returns the totals for sel. It reports false when no state is
// selected or the state is not in the table. A city that is missing from the
// table falls back to the state total.
func ResolveMetric(sel model.Selection, table model.RegionBaseline) (model.RegionMetric, bool) {
	if !sel.HasState() {
		return model.RegionMetric{}, false
	}
	region, ok := table[sel.State]
	if !ok {
		return model.RegionMetric{}, false
	}
	if sel.City != "" {
		if city, ok := region.Cities[sel.City]; ok {
			return city, true
		}
	}
	return region.Total, true
}

// RescaleCategorical redistributes target across shape in proportion to the
// shape's values. Values are rounded independently, so the result may not sum
// to target exactly. A nil target returns an unmodified copy.
func RescaleCategorical(shape []model.Category, target *int) []model.Category {
	out := make([]model.Category, len(shape))
	copy(out, shape)
	if target == nil {
		return out
	}

	sum := 0
	for _, c := range shape {
		sum += c.Value
	}
	if sum == 0 {
		sum = 1
	}

	for i, c := range shape {
		out[i].Value = roundHalfUp(float64(c.Value) / float64(sum) * float64(*target))
	}
	return out
}

// RescaleSeries scales the first count of every record so the series sums
// toward targetA, and the second toward targetB. Results are floored at zero.
// A nil target leaves its field untouched.
func RescaleSeries[T Paired[T]](series []T, targetA, targetB *int) []T {
	out := make([]T, len(series))
	copy(out, series)
	if targetA == nil && targetB == nil {
		return out
	}

	sumA, sumB := 0, 0
	for _, rec := range series {
		a, b := rec.Pair()
		sumA += a
		sumB += b
	}
	scaleA := scaleFactor(targetA, sumA)
	scaleB := scaleFactor(targetB, sumB)

	for i, rec := range series {
		a, b := rec.Pair()
		if targetA != nil {
			a = nonNegative(roundHalfUp(float64(a) * scaleA))
		}
		if targetB != nil {
			b = nonNegative(roundHalfUp(float64(b) * scaleB))
		}
		out[i] = rec.WithPair(a, b)
	}
	return out
}

// Project applies the rescalers to every reference dataset. A nil metric
// returns copies of the shapes unchanged.
func Project(metric *model.RegionMetric, shapes model.BaselineShapes) Projection {
	var applications, matches, companies, students *int
	if metric != nil {
		applications = &metric.Applications
		matches = &metric.Matches
		companies = &metric.Companies
		students = &metric.Students
	}

	return Projection{
		ApplicationStatus:  RescaleCategorical(shapes.ApplicationStatus, applications),
		CompanyStatus:      RescaleCategorical(shapes.CompanyStatus, companies),
		MonthlyTrends:      RescaleSeries(shapes.MonthlyTrends, applications, matches),
		SectorDistribution: RescaleSeries(shapes.SectorDistribution, students, companies),
	}
}

func scaleFactor(target *int, sum int) float64 {
	if target == nil {
		return 1
	}
	if sum == 0 {
		sum = 1
	}
	return float64(*target) / float64(sum)
}

// roundHalfUp rounds to the nearest integer with .5 going toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
