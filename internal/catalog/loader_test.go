package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/geo"
	"github.com/stemsi/placement-dashboard/internal/model"
)

type citiesResult struct {
	cities []string
	err    error
}

// fakeFetcher answers states immediately. Cities calls block until the test
// releases them, regardless of context cancellation, to mimic a transport
// that delivers late responses.
type fakeFetcher struct {
	states    []string
	statesErr error

	mu         sync.Mutex
	stateCalls int
	cityCalls  map[string]int
	gates      map[string]chan citiesResult
}

func newFakeFetcher(states ...string) *fakeFetcher {
	return &fakeFetcher{
		states:    states,
		cityCalls: make(map[string]int),
		gates:     make(map[string]chan citiesResult),
	}
}

func (f *fakeFetcher) gate(state string) chan citiesResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[state]
	if !ok {
		g = make(chan citiesResult, 1)
		f.gates[state] = g
	}
	return g
}

func (f *fakeFetcher) release(state string, cities []string, err error) {
	f.gate(state) <- citiesResult{cities: cities, err: err}
}

func (f *fakeFetcher) States(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.stateCalls++
	f.mu.Unlock()
	return f.states, f.statesErr
}

func (f *fakeFetcher) Cities(ctx context.Context, state string) ([]string, error) {
	f.mu.Lock()
	f.cityCalls[state]++
	f.mu.Unlock()
	res := <-f.gate(state)
	return res.cities, res.err
}

func (f *fakeFetcher) cityCallCount(state string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cityCalls[state]
}

func newReadyLoader(t *testing.T, f *fakeFetcher) *Loader {
	t.Helper()
	l := NewLoader(context.Background(), f, zerolog.Nop())
	t.Cleanup(func() {
		l.Close()
	})
	if err := l.LoadStates(); err != nil {
		t.Fatalf("LoadStates: %v", err)
	}
	l.Wait()
	return l
}

func waitFor(t *testing.T, l *Loader, cond func(model.CatalogSnapshot) bool) model.CatalogSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := l.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met, last snapshot %+v", l.Snapshot())
	return model.CatalogSnapshot{}
}

func TestLoadStatesSortsAndRunsOnce(t *testing.T) {
	f := newFakeFetcher("West Bengal", "Delhi", "Karnataka")
	l := newReadyLoader(t, f)

	if err := l.LoadStates(); err != nil {
		t.Fatalf("second LoadStates: %v", err)
	}
	l.Wait()

	snap := l.Snapshot()
	if snap.States.Status != model.FetchStatusReady {
		t.Fatalf("status = %s", snap.States.Status)
	}
	want := []string{"Delhi", "Karnataka", "West Bengal"}
	if !reflect.DeepEqual(snap.States.Values, want) {
		t.Errorf("states = %v, want %v", snap.States.Values, want)
	}
	if f.stateCalls != 1 {
		t.Errorf("states fetched %d times, want 1", f.stateCalls)
	}
	if snap.Cities.Status != model.FetchStatusIdle {
		t.Errorf("cities status = %s, want idle", snap.Cities.Status)
	}
}

func TestLoadStatesError(t *testing.T) {
	f := newFakeFetcher()
	f.statesErr = fmt.Errorf("%w: HTTP 500", geo.ErrTransport)
	l := newReadyLoader(t, f)

	snap := l.Snapshot()
	if snap.States.Status != model.FetchStatusError || snap.States.Message != StatesErrorMessage {
		t.Fatalf("states = %+v", snap.States)
	}
	if err := l.SelectState("Delhi"); !errors.Is(err, ErrStateNotAvailable) {
		t.Errorf("SelectState err = %v, want ErrStateNotAvailable", err)
	}
}

func TestSelectStateLoadsSortedCities(t *testing.T) {
	f := newFakeFetcher("Maharashtra")
	l := newReadyLoader(t, f)

	if err := l.SelectState("Maharashtra"); err != nil {
		t.Fatalf("SelectState: %v", err)
	}
	if got := l.Snapshot().Cities.Status; got != model.FetchStatusLoading {
		t.Fatalf("cities status = %s, want loading", got)
	}

	f.release("Maharashtra", []string{"Pune", "Mumbai", "Nagpur"}, nil)
	l.Wait()

	snap := l.Snapshot()
	want := []string{"Mumbai", "Nagpur", "Pune"}
	if snap.Cities.Status != model.FetchStatusReady || !reflect.DeepEqual(snap.Cities.Values, want) {
		t.Fatalf("cities = %+v, want ready %v", snap.Cities, want)
	}
}

func TestStaleCitiesResultIsDiscarded(t *testing.T) {
	f := newFakeFetcher("Karnataka", "Maharashtra")
	l := newReadyLoader(t, f)

	if err := l.SelectState("Maharashtra"); err != nil {
		t.Fatal(err)
	}
	if err := l.SelectState("Karnataka"); err != nil {
		t.Fatal(err)
	}

	f.release("Karnataka", []string{"Mysuru", "Bengaluru"}, nil)
	waitFor(t, l, func(s model.CatalogSnapshot) bool { return s.Cities.Status == model.FetchStatusReady })

	// The earlier request resolves last and must not overwrite the newer list.
	f.release("Maharashtra", []string{"Mumbai", "Pune"}, nil)
	l.Wait()

	snap := l.Snapshot()
	if !reflect.DeepEqual(snap.Cities.Values, []string{"Bengaluru", "Mysuru"}) {
		t.Fatalf("cities = %v, want Karnataka's", snap.Cities.Values)
	}
	if snap.Selection.State != "Karnataka" {
		t.Errorf("selected state = %q", snap.Selection.State)
	}
}

func TestStaleErrorIsDiscarded(t *testing.T) {
	f := newFakeFetcher("Delhi", "Gujarat")
	l := newReadyLoader(t, f)

	l.SelectState("Delhi")
	l.SelectState("Gujarat")
	f.release("Delhi", nil, geo.ErrTransport)
	f.release("Gujarat", []string{"Surat", "Ahmedabad"}, nil)
	l.Wait()

	snap := l.Snapshot()
	if snap.Cities.Status != model.FetchStatusReady || snap.Cities.Message != "" {
		t.Fatalf("cities = %+v, want Gujarat's ready list", snap.Cities)
	}
}

func TestSelectStateResetsCity(t *testing.T) {
	f := newFakeFetcher("Delhi", "Telangana")
	l := newReadyLoader(t, f)

	l.SelectState("Telangana")
	f.release("Telangana", []string{"Hyderabad", "Warangal"}, nil)
	l.Wait()
	if err := l.SelectCity("Warangal"); err != nil {
		t.Fatalf("SelectCity: %v", err)
	}

	for _, next := range []string{"Delhi", "Telangana", ""} {
		if err := l.SelectState(next); err != nil {
			t.Fatalf("SelectState(%q): %v", next, err)
		}
		if city := l.Snapshot().Selection.City; city != "" {
			t.Fatalf("after selecting %q city = %q, want none", next, city)
		}
		if next != "" {
			f.release(next, []string{"X"}, nil)
			l.Wait()
		}
	}
}

func TestClearFiltersDoesNotFetch(t *testing.T) {
	f := newFakeFetcher("Delhi")
	l := newReadyLoader(t, f)

	l.SelectState("Delhi")
	f.release("Delhi", []string{"New Delhi"}, nil)
	l.Wait()

	if err := l.ClearFilters(); err != nil {
		t.Fatal(err)
	}
	snap := l.Snapshot()
	if snap.Selection != (model.Selection{}) {
		t.Errorf("selection = %+v", snap.Selection)
	}
	if snap.Cities.Status != model.FetchStatusIdle || len(snap.Cities.Values) != 0 {
		t.Errorf("cities = %+v, want idle and empty", snap.Cities)
	}
	if n := f.cityCallCount(""); n != 0 {
		t.Errorf("fetched cities for empty state %d times", n)
	}
}

func TestSelectCityValidation(t *testing.T) {
	f := newFakeFetcher("Delhi")
	l := newReadyLoader(t, f)

	if err := l.SelectCity("New Delhi"); !errors.Is(err, ErrCityNotAvailable) {
		t.Errorf("no state: err = %v", err)
	}

	l.SelectState("Delhi")
	if err := l.SelectCity("New Delhi"); !errors.Is(err, ErrCityNotAvailable) {
		t.Errorf("while loading: err = %v", err)
	}

	f.release("Delhi", []string{"New Delhi"}, nil)
	l.Wait()
	if err := l.SelectCity("Mumbai"); !errors.Is(err, ErrCityNotAvailable) {
		t.Errorf("foreign city: err = %v", err)
	}
	if err := l.SelectCity("New Delhi"); err != nil {
		t.Fatalf("valid city: %v", err)
	}
	if err := l.SelectCity(""); err != nil {
		t.Fatalf("clear city: %v", err)
	}
	if got := l.Snapshot().Selection; got != (model.Selection{State: "Delhi"}) {
		t.Errorf("selection = %+v", got)
	}
}

func TestCitiesErrorRecoversOnNextSelection(t *testing.T) {
	f := newFakeFetcher("Delhi", "Gujarat")
	l := newReadyLoader(t, f)

	l.SelectState("Delhi")
	f.release("Delhi", nil, fmt.Errorf("%w: data", geo.ErrShape))
	l.Wait()

	snap := l.Snapshot()
	if snap.Cities.Status != model.FetchStatusError || snap.Cities.Message != CitiesErrorMessage {
		t.Fatalf("cities = %+v", snap.Cities)
	}

	l.SelectState("Delhi")
	f.release("Delhi", []string{"New Delhi"}, nil)
	l.Wait()

	if got := l.Snapshot().Cities; got.Status != model.FetchStatusReady || got.Message != "" {
		t.Fatalf("cities after retry = %+v", got)
	}
	if n := f.cityCallCount("Delhi"); n != 2 {
		t.Errorf("Delhi fetched %d times, want 2", n)
	}
}

func TestCloseDiscardsInFlightResults(t *testing.T) {
	f := newFakeFetcher("Delhi")
	l := newReadyLoader(t, f)

	l.SelectState("Delhi")
	l.Close()
	f.release("Delhi", []string{"New Delhi"}, nil)
	l.Wait()

	if got := l.Snapshot().Cities.Status; got != model.FetchStatusLoading {
		t.Errorf("cities status = %s, want loading (result discarded)", got)
	}
	if err := l.SelectState("Delhi"); !errors.Is(err, ErrClosed) {
		t.Errorf("SelectState after close: err = %v", err)
	}
}

func TestSubscribeDeliversLatestSnapshot(t *testing.T) {
	f := newFakeFetcher("Delhi")
	l := newReadyLoader(t, f)

	updates, unsubscribe := l.Subscribe()
	defer unsubscribe()

	first := <-updates
	if first.States.Status != model.FetchStatusReady {
		t.Fatalf("initial snapshot = %+v", first)
	}

	l.SelectState("Delhi")
	f.release("Delhi", []string{"New Delhi"}, nil)
	l.Wait()

	var last model.CatalogSnapshot
	timeout := time.After(2 * time.Second)
	for last.Cities.Status != model.FetchStatusReady {
		select {
		case last = <-updates:
		case <-timeout:
			t.Fatalf("no ready snapshot, last %+v", last)
		}
	}
	if last.Selection.State != "Delhi" {
		t.Errorf("selection = %+v", last.Selection)
	}

	l.Close()
	for range updates {
	}
}
