package projector

import (
	"reflect"
	"testing"

	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/model"
)

func intPtr(v int) *int { return &v }

func TestResolveMetric(t *testing.T) {
	table := config.DefaultRegionBaseline()

	tests := []struct {
		name   string
		sel    model.Selection
		want   model.RegionMetric
		wantOK bool
	}{
		{name: "no selection", sel: model.Selection{}, wantOK: false},
		{name: "unknown state", sel: model.Selection{State: "Goa"}, wantOK: false},
		{name: "state only", sel: model.Selection{State: "Delhi"}, want: table["Delhi"].Total, wantOK: true},
		{name: "unknown city falls back", sel: model.Selection{State: "Delhi", City: "Nonexistent"}, want: table["Delhi"].Total, wantOK: true},
		{name: "known city", sel: model.Selection{State: "Maharashtra", City: "Pune"}, want: table["Maharashtra"].Cities["Pune"], wantOK: true},
		{name: "city from another state", sel: model.Selection{State: "Karnataka", City: "Pune"}, want: table["Karnataka"].Total, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveMetric(tt.sel, table)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("metric = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRescaleCategorical(t *testing.T) {
	shape := config.DefaultBaselineShapes().ApplicationStatus

	got := RescaleCategorical(shape, intPtr(2500))

	want := []int{1738, 410, 352}
	for i, c := range got {
		if c.Value != want[i] {
			t.Errorf("%s = %d, want %d", c.Name, c.Value, want[i])
		}
		if c.Name != shape[i].Name || c.Color != shape[i].Color {
			t.Errorf("label/color changed at %d: %+v", i, c)
		}
	}
	if shape[0].Value != 8932 {
		t.Errorf("input shape mutated: %+v", shape[0])
	}
}

func TestRescaleCategoricalNilTarget(t *testing.T) {
	shape := config.DefaultBaselineShapes().CompanyStatus

	got := RescaleCategorical(shape, nil)
	if !reflect.DeepEqual(got, shape) {
		t.Fatalf("got %+v, want unchanged %+v", got, shape)
	}
	got[0].Value = -1
	if shape[0].Value == -1 {
		t.Fatal("result aliases the input slice")
	}
}

func TestRescaleCategoricalZeroSum(t *testing.T) {
	shape := []model.Category{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	got := RescaleCategorical(shape, intPtr(500))
	for _, c := range got {
		if c.Value != 0 {
			t.Errorf("%s = %d, want 0", c.Name, c.Value)
		}
	}
}

func TestRescaleCategoricalRoundingDrift(t *testing.T) {
	shape := []model.Category{{Name: "A", Value: 1}, {Name: "B", Value: 1}, {Name: "C", Value: 1}}

	got := RescaleCategorical(shape, intPtr(2))
	sum := 0
	for _, c := range got {
		sum += c.Value
	}
	// 2/3 rounds to 1 for every slice; the drift is accepted.
	if sum != 3 {
		t.Errorf("sum = %d, want 3", sum)
	}
}

func TestRescaleSeries(t *testing.T) {
	series := config.DefaultBaselineShapes().MonthlyTrends

	got := RescaleSeries(series, intPtr(5200), intPtr(4100))

	// Baseline sums: applications 8980, matches 7410.
	wantApps := []int{695, 840, 1094, 1355, 1216}
	wantMatches := []int{542, 653, 841, 1096, 968}
	for i, m := range got {
		if m.Applications != wantApps[i] {
			t.Errorf("%s applications = %d, want %d", m.Month, m.Applications, wantApps[i])
		}
		if m.Matches != wantMatches[i] {
			t.Errorf("%s matches = %d, want %d", m.Month, m.Matches, wantMatches[i])
		}
		if m.Companies != series[i].Companies {
			t.Errorf("%s companies changed: %d", m.Month, m.Companies)
		}
	}
}

func TestRescaleSeriesZeroSum(t *testing.T) {
	series := []model.SectorShare{{Sector: "A"}, {Sector: "B"}}

	got := RescaleSeries(series, intPtr(100), intPtr(10))
	for _, s := range got {
		if s.Students != 0 || s.Companies != 0 {
			t.Errorf("%s = %+v, want zeros", s.Sector, s)
		}
	}
}

func TestRescaleSeriesNegativeFloored(t *testing.T) {
	series := []model.SectorShare{{Sector: "A", Students: 10, Companies: 1}, {Sector: "B", Students: 10, Companies: 1}}

	got := RescaleSeries(series, intPtr(-40), intPtr(4))
	for _, s := range got {
		if s.Students != 0 {
			t.Errorf("%s students = %d, want 0", s.Sector, s.Students)
		}
		if s.Companies != 2 {
			t.Errorf("%s companies = %d, want 2", s.Sector, s.Companies)
		}
	}
}

func TestProjectNilMetricPassthrough(t *testing.T) {
	shapes := config.DefaultBaselineShapes()

	got := Project(nil, shapes)

	if !reflect.DeepEqual(got.ApplicationStatus, shapes.ApplicationStatus) ||
		!reflect.DeepEqual(got.CompanyStatus, shapes.CompanyStatus) ||
		!reflect.DeepEqual(got.MonthlyTrends, shapes.MonthlyTrends) ||
		!reflect.DeepEqual(got.SectorDistribution, shapes.SectorDistribution) {
		t.Fatalf("projection differs from baseline: %+v", got)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	table := config.DefaultRegionBaseline()
	shapes := config.DefaultBaselineShapes()
	sel := model.Selection{State: "Karnataka", City: "Bengaluru"}

	m1, _ := ResolveMetric(sel, table)
	m2, _ := ResolveMetric(sel, table)
	first := Project(&m1, shapes)
	second := Project(&m2, shapes)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("projections differ:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(shapes, config.DefaultBaselineShapes()) {
		t.Fatal("shapes mutated by projection")
	}
}

func TestProjectUsesRegionFields(t *testing.T) {
	shapes := config.DefaultBaselineShapes()
	metric := model.RegionMetric{Applications: 2100, Matches: 1750, Companies: 31, Students: 2500}

	got := Project(&metric, shapes)

	// company status 156/78/22 of 256 scaled to 31.
	wantCompany := []int{19, 9, 3}
	for i, c := range got.CompanyStatus {
		if c.Value != wantCompany[i] {
			t.Errorf("company %s = %d, want %d", c.Name, c.Value, wantCompany[i])
		}
	}
	// Tech share: 4200/12847 * 2500.
	if got.SectorDistribution[0].Students != 817 {
		t.Errorf("tech students = %d, want 817", got.SectorDistribution[0].Students)
	}
}
