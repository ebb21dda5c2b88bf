package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/projector"
)

// BaselineSource provides the regional totals table. Static, PostgreSQL and
// Redis-cached repositories all satisfy it.
type BaselineSource interface {
	LoadBaseline(ctx context.Context) (model.RegionBaseline, error)
}

// DashboardData consolidates everything the dashboard page renders for one selection.
type DashboardData struct {
	Selection model.Selection `json:"selection"`
	// Scope labels the region cards: the city when one is selected, else the state.
	Scope  string              `json:"scope,omitempty"`
	Region *model.RegionMetric `json:"region"`
	projector.Projection
	Overview    []model.OverviewStat      `json:"overview"`
	Performance []model.PerformanceMetric `json:"performance"`
}

// BaselineData exposes the unscaled reference data.
type BaselineData struct {
	Regions model.RegionBaseline `json:"regions"`
	Shapes  model.BaselineShapes `json:"shapes"`
}

// DashboardService handles dashboard projection logic.
type DashboardService struct {
	source BaselineSource
	shapes model.BaselineShapes
	log    zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(source BaselineSource, shapes model.BaselineShapes, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		source: source,
		shapes: shapes,
		log:    log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetDashboard resolves the selection's totals and scopes every chart dataset to them.
// An empty or unknown selection yields the program-wide datasets and a nil Region.
func (s *DashboardService) GetDashboard(ctx context.Context, sel model.Selection) (*DashboardData, error) {
	table, err := s.source.LoadBaseline(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load region baseline")
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	data := &DashboardData{
		Selection:   sel,
		Overview:    config.DefaultOverviewStats(),
		Performance: config.DefaultPerformanceMetrics(),
	}

	var metric *model.RegionMetric
	if m, ok := projector.ResolveMetric(sel, table); ok {
		metric = &m
		data.Region = metric
		// The label follows the selection even when the figures fall back
		// to the state total.
		data.Scope = sel.City
		if data.Scope == "" {
			data.Scope = sel.State
		}
	}
	data.Projection = projector.Project(metric, s.shapes)

	return data, nil
}

// GetBaseline returns the regional totals and the reference datasets as stored.
func (s *DashboardService) GetBaseline(ctx context.Context) (*BaselineData, error) {
	table, err := s.source.LoadBaseline(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load region baseline")
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	return &BaselineData{Regions: table, Shapes: s.shapes}, nil
}
