package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/repository"
)

type failingSource struct{ err error }

func (f failingSource) LoadBaseline(ctx context.Context) (model.RegionBaseline, error) {
	return nil, f.err
}

func newDashboardService() *DashboardService {
	return NewDashboardService(repository.NewStaticRegionRepository(), config.DefaultBaselineShapes(), zerolog.Nop())
}

func TestGetDashboardWithoutSelection(t *testing.T) {
	svc := newDashboardService()

	data, err := svc.GetDashboard(context.Background(), model.Selection{})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if data.Region != nil || data.Scope != "" {
		t.Errorf("region = %+v scope = %q, want none", data.Region, data.Scope)
	}
	shapes := config.DefaultBaselineShapes()
	if !reflect.DeepEqual(data.ApplicationStatus, shapes.ApplicationStatus) {
		t.Errorf("application status = %+v, want baseline", data.ApplicationStatus)
	}
	if len(data.Overview) != 4 || len(data.Performance) != 4 {
		t.Errorf("overview=%d performance=%d", len(data.Overview), len(data.Performance))
	}
}

func TestGetDashboardCityScope(t *testing.T) {
	svc := newDashboardService()

	data, err := svc.GetDashboard(context.Background(), model.Selection{State: "Maharashtra", City: "Mumbai"})
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if data.Scope != "Mumbai" {
		t.Errorf("scope = %q", data.Scope)
	}
	want := model.RegionMetric{Applications: 2500, Matches: 2000, Companies: 28, Students: 3000}
	if data.Region == nil || *data.Region != want {
		t.Fatalf("region = %+v, want %+v", data.Region, want)
	}
	// 8932/12847 * 2500
	if got := data.ApplicationStatus[0].Value; got != 1738 {
		t.Errorf("accepted = %d, want 1738", got)
	}
}

func TestGetDashboardStateScopeWithUnknownCity(t *testing.T) {
	svc := newDashboardService()

	data, err := svc.GetDashboard(context.Background(), model.Selection{State: "Delhi", City: "Dwarka"})
	if err != nil {
		t.Fatal(err)
	}
	if data.Region == nil || data.Region.Applications != 2100 {
		t.Fatalf("region = %+v, want Delhi total", data.Region)
	}
	if data.Scope != "Dwarka" {
		t.Errorf("scope = %q, want the selected city", data.Scope)
	}
}

func TestGetDashboardSourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDashboardService(failingSource{err: boom}, config.DefaultBaselineShapes(), zerolog.Nop())

	if _, err := svc.GetDashboard(context.Background(), model.Selection{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if _, err := svc.GetBaseline(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("baseline err = %v, want wrapped boom", err)
	}
}
