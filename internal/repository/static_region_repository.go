package repository

import (
	"context"

	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// StaticRegionRepository serves the compiled-in baseline table.
type StaticRegionRepository struct{}

// NewStaticRegionRepository creates a new StaticRegionRepository.
func NewStaticRegionRepository() *StaticRegionRepository {
	return &StaticRegionRepository{}
}

// LoadBaseline returns a fresh copy of the default table.
func (r *StaticRegionRepository) LoadBaseline(ctx context.Context) (model.RegionBaseline, error) {
	return config.DefaultRegionBaseline(), nil
}
