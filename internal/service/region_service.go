package service

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/catalog"
)

// RegionService is a stateless, sorted passthrough to the geography service.
type RegionService struct {
	fetcher catalog.Fetcher
	log     zerolog.Logger
}

// NewRegionService creates a new RegionService.
func NewRegionService(fetcher catalog.Fetcher, log zerolog.Logger) *RegionService {
	return &RegionService{
		fetcher: fetcher,
		log:     log.With().Str("component", "region_service").Logger(),
	}
}

// ListStates returns the country's states in lexicographic order.
func (s *RegionService) ListStates(ctx context.Context) ([]string, error) {
	states, err := s.fetcher.States(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list states")
		return nil, err
	}
	return sortedCopy(states), nil
}

// ListCities returns the state's cities in lexicographic order.
func (s *RegionService) ListCities(ctx context.Context, state string) ([]string, error) {
	cities, err := s.fetcher.Cities(ctx, state)
	if err != nil {
		s.log.Warn().Err(err).Str("state", state).Msg("failed to list cities")
		return nil, err
	}
	return sortedCopy(cities), nil
}

func sortedCopy(values []string) []string {
	out := slices.Clone(values)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}
