package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/catalog"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// ErrViewNotFound is returned for unknown or evicted view IDs.
var ErrViewNotFound = errors.New("dashboard view not found")

const janitorInterval = time.Minute

// View is one mounted dashboard: its region catalog plus the projection for
// the catalog's current selection.
type View struct {
	ID        uuid.UUID             `json:"id"`
	Catalog   model.CatalogSnapshot `json:"catalog"`
	Dashboard *DashboardData        `json:"dashboard"`
}

type liveView struct {
	loader   *catalog.Loader
	lastSeen time.Time
	streams  int
}

// ViewService keeps live dashboard views. Each view has its own region
// catalog; views share nothing but the baseline source.
type ViewService struct {
	ctx         context.Context
	fetcher     catalog.Fetcher
	dashboard   *DashboardService
	idleTimeout time.Duration
	log         zerolog.Logger

	mu    sync.Mutex
	views map[uuid.UUID]*liveView
}

// NewViewService creates a ViewService. Catalog fetches are bound to ctx, not
// to the request that created the view.
func NewViewService(ctx context.Context, fetcher catalog.Fetcher, dashboard *DashboardService, idleTimeout time.Duration, log zerolog.Logger) *ViewService {
	return &ViewService{
		ctx:         ctx,
		fetcher:     fetcher,
		dashboard:   dashboard,
		idleTimeout: idleTimeout,
		log:         log.With().Str("component", "view_service").Logger(),
		views:       make(map[uuid.UUID]*liveView),
	}
}

// Create mounts a new view and starts loading its states.
func (s *ViewService) Create(ctx context.Context) (*View, error) {
	id := uuid.New()
	loader := catalog.NewLoader(s.ctx, s.fetcher, s.log.With().Str("view_id", id.String()).Logger())
	if err := loader.LoadStates(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.views[id] = &liveView{loader: loader, lastSeen: time.Now()}
	s.mu.Unlock()

	s.log.Info().Str("view_id", id.String()).Msg("Dashboard view created")
	return s.Render(ctx, id, loader.Snapshot())
}

// Get returns the view's current state.
func (s *ViewService) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	loader, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, id, loader.Snapshot())
}

// SelectState changes the view's state filter and resets its city.
func (s *ViewService) SelectState(ctx context.Context, id uuid.UUID, state string) (*View, error) {
	loader, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	if err := loader.SelectState(state); err != nil {
		return nil, err
	}
	return s.Render(ctx, id, loader.Snapshot())
}

// SelectCity changes the view's city filter.
func (s *ViewService) SelectCity(ctx context.Context, id uuid.UUID, city string) (*View, error) {
	loader, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	if err := loader.SelectCity(city); err != nil {
		return nil, err
	}
	return s.Render(ctx, id, loader.Snapshot())
}

// ClearFilters drops the view's state and city.
func (s *ViewService) ClearFilters(ctx context.Context, id uuid.UUID) (*View, error) {
	loader, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	if err := loader.ClearFilters(); err != nil {
		return nil, err
	}
	return s.Render(ctx, id, loader.Snapshot())
}

// Close unmounts the view. Pending fetch results are discarded.
func (s *ViewService) Close(id uuid.UUID) error {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}

	v.loader.Close()
	s.log.Info().Str("view_id", id.String()).Msg("Dashboard view closed")
	return nil
}

// Subscribe streams catalog snapshots of the view. The view is not evicted
// while at least one stream is open.
func (s *ViewService) Subscribe(id uuid.UUID) (<-chan model.CatalogSnapshot, func(), error) {
	s.mu.Lock()
	v, ok := s.views[id]
	if !ok {
		s.mu.Unlock()
		return nil, nil, ErrViewNotFound
	}
	v.streams++
	v.lastSeen = time.Now()
	s.mu.Unlock()

	updates, unsubscribe := v.loader.Subscribe()
	var once sync.Once
	return updates, func() {
		once.Do(func() {
			unsubscribe()
			s.mu.Lock()
			v.streams--
			v.lastSeen = time.Now()
			s.mu.Unlock()
		})
	}, nil
}

// Render projects a catalog snapshot into a full view.
func (s *ViewService) Render(ctx context.Context, id uuid.UUID, snap model.CatalogSnapshot) (*View, error) {
	dashboard, err := s.dashboard.GetDashboard(ctx, snap.Selection)
	if err != nil {
		return nil, err
	}
	return &View{ID: id, Catalog: snap, Dashboard: dashboard}, nil
}

// Count returns the number of live views.
func (s *ViewService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// RunJanitor evicts views idle for longer than the idle timeout until ctx is done.
func (s *ViewService) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(time.Now()); n > 0 {
				s.log.Info().Int("evicted", n).Msg("Evicted idle dashboard views")
			}
		}
	}
}

// Shutdown closes every live view.
func (s *ViewService) Shutdown() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[uuid.UUID]*liveView)
	s.mu.Unlock()

	for _, v := range views {
		v.loader.Close()
	}
}

func (s *ViewService) evictIdle(now time.Time) int {
	var stale []*liveView

	s.mu.Lock()
	for id, v := range s.views {
		if v.streams == 0 && now.Sub(v.lastSeen) > s.idleTimeout {
			stale = append(stale, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range stale {
		v.loader.Close()
	}
	return len(stale)
}

func (s *ViewService) touch(id uuid.UUID) (*catalog.Loader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	v.lastSeen = time.Now()
	return v.loader, nil
}
