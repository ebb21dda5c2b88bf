package config

import "github.com/stemsi/placement-dashboard/internal/model"

// DefaultRegionBaseline returns the compiled-in regional totals. A fresh map is
// returned on every call so callers may not mutate shared state.
//
// State totals are independently chosen sample figures and are not the sum of
// the listed cities.
func DefaultRegionBaseline() model.RegionBaseline {
	return model.RegionBaseline{
		"Maharashtra": {
			Total: metric(5200, 4100, 62, 6400),
			Cities: map[string]model.RegionMetric{
				"Mumbai": metric(2500, 2000, 28, 3000),
				"Pune":   metric(1800, 1500, 22, 2300),
				"Nagpur": metric(500, 380, 6, 650),
				"Nashik": metric(400, 320, 6, 450),
			},
		},
		"Karnataka": {
			Total: metric(4300, 3500, 54, 5200),
			Cities: map[string]model.RegionMetric{
				"Bengaluru": metric(3400, 2900, 44, 4100),
				"Mysuru":    metric(500, 380, 6, 650),
				"Mangaluru": metric(400, 320, 4, 450),
			},
		},
		"Delhi": {
			Total: metric(2100, 1750, 31, 2500),
			Cities: map[string]model.RegionMetric{
				"New Delhi": metric(2100, 1750, 31, 2500),
			},
		},
		"Telangana": {
			Total: metric(2400, 1900, 35, 2900),
			Cities: map[string]model.RegionMetric{
				"Hyderabad": metric(2000, 1600, 30, 2400),
				"Warangal":  metric(400, 300, 5, 500),
			},
		},
		"Tamil Nadu": {
			Total: metric(2600, 2100, 38, 3200),
			Cities: map[string]model.RegionMetric{
				"Chennai":    metric(1800, 1500, 26, 2200),
				"Coimbatore": metric(500, 400, 8, 700),
				"Madurai":    metric(300, 200, 4, 300),
			},
		},
		"Gujarat": {
			Total: metric(1900, 1500, 29, 2200),
			Cities: map[string]model.RegionMetric{
				"Ahmedabad": metric(900, 720, 14, 1050),
				"Surat":     metric(600, 480, 9, 750),
				"Vadodara":  metric(400, 300, 6, 400),
			},
		},
		"West Bengal": {
			Total: metric(1700, 1350, 24, 2000),
			Cities: map[string]model.RegionMetric{
				"Kolkata": metric(1400, 1120, 20, 1650),
				"Howrah":  metric(300, 230, 4, 350),
			},
		},
	}
}

// DefaultBaselineShapes returns the program-wide reference datasets.
func DefaultBaselineShapes() model.BaselineShapes {
	return model.BaselineShapes{
		ApplicationStatus: []model.Category{
			{Name: "Accepted", Value: 8932, Color: "hsl(var(--success))"},
			{Name: "Pending", Value: 2105, Color: "hsl(var(--warning))"},
			{Name: "Rejected", Value: 1810, Color: "hsl(var(--destructive))"},
		},
		CompanyStatus: []model.Category{
			{Name: "Active", Value: 156, Color: "hsl(var(--chart-1))"},
			{Name: "Allocated", Value: 78, Color: "hsl(var(--chart-2))"},
			{Name: "Pending", Value: 22, Color: "hsl(var(--chart-3))"},
		},
		MonthlyTrends: []model.MonthlyTrend{
			{Month: "Jan", Applications: 1200, Matches: 980, Companies: 45},
			{Month: "Feb", Applications: 1450, Matches: 1180, Companies: 52},
			{Month: "Mar", Applications: 1890, Matches: 1520, Companies: 61},
			{Month: "Apr", Applications: 2340, Matches: 1980, Companies: 68},
			{Month: "May", Applications: 2100, Matches: 1750, Companies: 30},
		},
		SectorDistribution: []model.SectorShare{
			{Sector: "Tech", Students: 4200, Companies: 89},
			{Sector: "Finance", Students: 2800, Companies: 56},
			{Sector: "Healthcare", Students: 2100, Companies: 42},
			{Sector: "Manufacturing", Students: 1900, Companies: 38},
			{Sector: "Consulting", Students: 1847, Companies: 31},
		},
	}
}

// DefaultOverviewStats returns the program-wide stat cards.
func DefaultOverviewStats() []model.OverviewStat {
	return []model.OverviewStat{
		{Key: "total_students", Title: "Total Students", Value: 12847, Trend: model.Trend{Direction: "positive", Value: "+12%"}},
		{Key: "total_companies", Title: "Partner Companies", Value: 256, Trend: model.Trend{Direction: "positive", Value: "+8%"}},
		{Key: "successful_matches", Title: "Successful Matches", Value: 8932, Trend: model.Trend{Direction: "positive", Value: "+18%"}},
		{Key: "matching_accuracy", Title: "Matching Accuracy", Value: 94.2, Unit: "%", Trend: model.Trend{Direction: "positive", Value: "+2.1%"}},
	}
}

// DefaultPerformanceMetrics returns the matching-engine indicators. These are
// fixed figures; nothing in this service computes them.
func DefaultPerformanceMetrics() []model.PerformanceMetric {
	return []model.PerformanceMetric{
		{Label: "Match Success Rate", Display: "94.2%", Progress: 94.2},
		{Label: "Student Satisfaction", Display: "91.8%", Progress: 91.8},
		{Label: "Company Satisfaction", Display: "89.4%", Progress: 89.4},
		{Label: "Processing Speed", Display: "1.2s avg", Progress: 88},
	}
}

func metric(applications, matches, companies, students int) model.RegionMetric {
	return model.RegionMetric{
		Applications: applications,
		Matches:      matches,
		Companies:    companies,
		Students:     students,
	}
}
