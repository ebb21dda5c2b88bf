package model

// RegionMetric holds absolute counts for one region (a state aggregate or one of its cities).
type RegionMetric struct {
	Applications int `json:"applications"`
	Matches      int `json:"matches"`
	Companies    int `json:"companies"`
	Students     int `json:"students"`
}

// RegionTotals is a state's aggregate plus its known per-city breakdown.
// Total is not derived from Cities; the city list may be a partial enumeration.
type RegionTotals struct {
	Total  RegionMetric            `json:"total"`
	Cities map[string]RegionMetric `json:"cities"`
}

// RegionBaseline maps a state name to its totals.
type RegionBaseline map[string]RegionTotals

// Selection is the dashboard's region filter. Empty strings mean "none".
type Selection struct {
	State string `json:"state"`
	City  string `json:"city"`
}

// HasState reports whether a state is selected.
func (s Selection) HasState() bool {
	return s.State != ""
}

// RegionMetricRow is one persisted baseline row. An empty City holds the state total.
type RegionMetricRow struct {
	State string `json:"state"`
	City  string `json:"city"`
	RegionMetric
}

// SelectStateRequest is the payload for changing a view's selected state.
// An empty state clears the filter.
type SelectStateRequest struct {
	State string `json:"state" binding:"max=100"`
}

// SelectCityRequest is the payload for changing a view's selected city.
type SelectCityRequest struct {
	City string `json:"city" binding:"max=100"`
}

// DashboardQuery binds the stateless dashboard query string.
type DashboardQuery struct {
	State string `form:"state" binding:"max=100"`
	City  string `form:"city" binding:"max=100"`
}

// CitiesQuery binds the cities lookup query string.
type CitiesQuery struct {
	State string `form:"state" binding:"required,max=100"`
}
