// Package catalog keeps the state and city lists behind the dashboard's region
// filter. States are fetched once per view; cities are fetched again every time
// the selected state changes, and a result that no longer matches the current
// selection is dropped.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/geo"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// User-facing messages for failed fetches.
const (
	StatesErrorMessage = "Failed to load states. Please try again."
	CitiesErrorMessage = "Failed to load cities. Please try again."
)

// Domain Errors
var (
	ErrClosed            = errors.New("region catalog is closed")
	ErrStateNotAvailable = errors.New("state is not in the loaded state list")
	ErrCityNotAvailable  = errors.New("city is not in the selected state's city list")
)

// Fetcher looks up region names. The geo.Client satisfies it.
type Fetcher interface {
	States(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, state string) ([]string, error)
}

// Loader owns one view's region lists and selection.
type Loader struct {
	fetcher Fetcher
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	states        model.RegionList
	cities        model.RegionList
	selection     model.Selection
	statesStarted bool
	closed        bool

	// generation identifies the latest SelectState call; a cities result is
	// applied only while its generation is current.
	generation   uint64
	cancelCities context.CancelFunc

	subscribers map[int]chan model.CatalogSnapshot
	nextSubID   int
}

// NewLoader creates a Loader whose fetches live until Close or until parent is done.
func NewLoader(parent context.Context, fetcher Fetcher, log zerolog.Logger) *Loader {
	ctx, cancel := context.WithCancel(parent)
	return &Loader{
		fetcher:     fetcher,
		log:         log.With().Str("component", "region_catalog").Logger(),
		ctx:         ctx,
		cancel:      cancel,
		states:      idleList(),
		cities:      idleList(),
		subscribers: make(map[int]chan model.CatalogSnapshot),
	}
}

// LoadStates starts the states fetch. Only the first call has any effect;
// a failed load is not retried.
func (l *Loader) LoadStates() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.statesStarted {
		l.mu.Unlock()
		return nil
	}
	l.statesStarted = true
	l.states = model.RegionList{Status: model.FetchStatusLoading, Values: []string{}}
	l.publishLocked()
	l.wg.Add(1)
	l.mu.Unlock()

	go l.fetchStates()
	return nil
}

func (l *Loader) fetchStates() {
	defer l.wg.Done()

	states, err := l.fetcher.States(l.ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	if err != nil {
		l.log.Warn().Err(err).Str("kind", errorKind(err)).Msg("Failed to load states")
		l.states = model.RegionList{Status: model.FetchStatusError, Values: []string{}, Message: StatesErrorMessage}
	} else {
		l.states = readyList(states)
		l.log.Debug().Int("count", len(states)).Msg("States loaded")
	}
	l.publishLocked()
}

// SelectState changes the selected state and clears the selected city. An
// empty state clears the city list without fetching; otherwise the city list
// is reloaded for the new state.
func (l *Loader) SelectState(state string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if state != "" && (l.states.Status != model.FetchStatusReady || !l.states.Contains(state)) {
		l.mu.Unlock()
		return ErrStateNotAvailable
	}

	l.generation++
	gen := l.generation
	if l.cancelCities != nil {
		l.cancelCities()
		l.cancelCities = nil
	}
	l.selection = model.Selection{State: state}

	if state == "" {
		l.cities = idleList()
		l.publishLocked()
		l.mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(l.ctx)
	l.cancelCities = cancel
	l.cities = model.RegionList{Status: model.FetchStatusLoading, Values: []string{}}
	l.publishLocked()
	l.wg.Add(1)
	l.mu.Unlock()

	go l.fetchCities(ctx, cancel, gen, state)
	return nil
}

func (l *Loader) fetchCities(ctx context.Context, cancel context.CancelFunc, gen uint64, state string) {
	defer l.wg.Done()
	defer cancel()

	cities, err := l.fetcher.Cities(ctx, state)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.generation {
		l.log.Debug().Str("state", state).Uint64("generation", gen).Msg("Discarding stale cities result")
		return
	}
	l.cancelCities = nil

	if err != nil {
		l.log.Warn().Err(err).Str("state", state).Str("kind", errorKind(err)).Msg("Failed to load cities")
		l.cities = model.RegionList{Status: model.FetchStatusError, Values: []string{}, Message: CitiesErrorMessage}
	} else {
		l.cities = readyList(cities)
	}
	l.publishLocked()
}

// SelectCity sets the selected city. The city must belong to the loaded list
// of the selected state. An empty city clears the selection.
func (l *Loader) SelectCity(city string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	if city != "" {
		if !l.selection.HasState() || l.cities.Status != model.FetchStatusReady || !l.cities.Contains(city) {
			return ErrCityNotAvailable
		}
	}
	l.selection.City = city
	l.publishLocked()
	return nil
}

// ClearFilters drops both the state and the city.
func (l *Loader) ClearFilters() error {
	return l.SelectState("")
}

// Snapshot returns a copy of the current lists and selection.
func (l *Loader) Snapshot() model.CatalogSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot immediately
// and then one snapshot per change. Slow readers only see the latest one.
// The channel is closed by unsubscribe or Close.
func (l *Loader) Subscribe() (<-chan model.CatalogSnapshot, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan model.CatalogSnapshot, 1)
	if l.closed {
		close(ch)
		return ch, func() {}
	}

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = ch
	ch <- l.snapshotLocked()

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if sub, ok := l.subscribers[id]; ok {
			delete(l.subscribers, id)
			close(sub)
		}
	}
}

// Close stops in-flight fetches and discards their results. It is safe to call twice.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.cancel()
	for id, ch := range l.subscribers {
		delete(l.subscribers, id)
		close(ch)
	}
	l.mu.Unlock()
}

// Wait blocks until every started fetch has returned.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) snapshotLocked() model.CatalogSnapshot {
	return model.CatalogSnapshot{
		States:    cloneList(l.states),
		Cities:    cloneList(l.cities),
		Selection: l.selection,
	}
}

// publishLocked must be called with mu held; it is the only sender on subscriber channels.
func (l *Loader) publishLocked() {
	if len(l.subscribers) == 0 {
		return
	}
	snap := l.snapshotLocked()
	for _, ch := range l.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func idleList() model.RegionList {
	return model.RegionList{Status: model.FetchStatusIdle, Values: []string{}}
}

func readyList(values []string) model.RegionList {
	sorted := slices.Clone(values)
	if sorted == nil {
		sorted = []string{}
	}
	slices.Sort(sorted)
	return model.RegionList{Status: model.FetchStatusReady, Values: sorted}
}

func cloneList(l model.RegionList) model.RegionList {
	l.Values = slices.Clone(l.Values)
	if l.Values == nil {
		l.Values = []string{}
	}
	return l
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, geo.ErrShape):
		return "shape"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
