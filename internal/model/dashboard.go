package model

// Category is one slice of a categorical chart (pie or bar).
type Category struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// MonthlyTrend is one point of the monthly applications/matches line chart.
type MonthlyTrend struct {
	Month        string `json:"month"`
	Applications int    `json:"applications"`
	Matches      int    `json:"matches"`
	Companies    int    `json:"companies"`
}

// Pair returns the rescaled fields: applications and matches.
func (m MonthlyTrend) Pair() (int, int) {
	return m.Applications, m.Matches
}

// WithPair returns a copy carrying new applications and matches counts.
func (m MonthlyTrend) WithPair(applications, matches int) MonthlyTrend {
	m.Applications = applications
	m.Matches = matches
	return m
}

// SectorShare is one industry row of the sector distribution.
type SectorShare struct {
	Sector    string `json:"sector"`
	Students  int    `json:"students"`
	Companies int    `json:"companies"`
}

// Pair returns the rescaled fields: students and companies.
func (s SectorShare) Pair() (int, int) {
	return s.Students, s.Companies
}

// WithPair returns a copy carrying new students and companies counts.
func (s SectorShare) WithPair(students, companies int) SectorShare {
	s.Students = students
	s.Companies = companies
	return s
}

// BaselineShapes are the reference datasets whose proportions are reused
// when scoping the dashboard to a region.
type BaselineShapes struct {
	ApplicationStatus  []Category     `json:"application_status"`
	CompanyStatus      []Category     `json:"company_status"`
	MonthlyTrends      []MonthlyTrend `json:"monthly_trends"`
	SectorDistribution []SectorShare  `json:"sector_distribution"`
}

// Trend is a "+12% from last month" style annotation.
type Trend struct {
	Direction string `json:"direction"` // positive | negative
	Value     string `json:"value"`
}

// OverviewStat is one program-wide stat card.
type OverviewStat struct {
	Key   string  `json:"key"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Trend Trend   `json:"trend"`
}

// PerformanceMetric is one matching-engine indicator with its progress bar value.
type PerformanceMetric struct {
	Label    string  `json:"label"`
	Display  string  `json:"display"`
	Progress float64 `json:"progress"`
}
