package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/repository"
	"github.com/stemsi/placement-dashboard/internal/service"
)

func project(t *testing.T, sel model.Selection) *service.DashboardData {
	t.Helper()
	svc := service.NewDashboardService(repository.NewStaticRegionRepository(), config.DefaultBaselineShapes(), zerolog.Nop())
	data, err := svc.GetDashboard(context.Background(), sel)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// fields splits the table output into whitespace-separated cells per line.
func fields(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			rows = append(rows, f)
		}
	}
	return rows
}

func TestWriteProjectionCity(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProjection(&buf, project(t, model.Selection{State: "Maharashtra", City: "Mumbai"})); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	rows := fields(out)
	if got := strings.Join(rows[0], " "); got != "Scope: Mumbai" {
		t.Errorf("first row = %q", got)
	}
	if got := strings.Join(rows[1], " "); got != "Applications: 2500" {
		t.Errorf("second row = %q", got)
	}

	for _, header := range []string{"APPLICATION STATUS", "COMPANY STATUS", "MONTH", "SECTOR"} {
		if !strings.Contains(out, header) {
			t.Errorf("missing %q section", header)
		}
	}
	// First application-status bucket rescaled to Mumbai.
	if !strings.Contains(out, "1738") {
		t.Errorf("output lacks rescaled 1738:\n%s", out)
	}
}

func TestWriteProjectionUnscoped(t *testing.T) {
	var buf bytes.Buffer
	if err := writeProjection(&buf, project(t, model.Selection{})); err != nil {
		t.Fatal(err)
	}
	rows := fields(buf.String())
	if got := strings.Join(rows[0], " "); got != "Scope: all regions" {
		t.Errorf("first row = %q", got)
	}
	if strings.Contains(buf.String(), "Applications:") {
		t.Error("unscoped output carries region figures")
	}
}

func TestWriteRegionsOrdering(t *testing.T) {
	regions := model.RegionBaseline{
		"Maharashtra": {
			Total: model.RegionMetric{Applications: 5200, Matches: 4100, Companies: 62, Students: 6400},
			Cities: map[string]model.RegionMetric{
				"Pune":   {Applications: 1800, Matches: 1500, Companies: 22, Students: 2300},
				"Mumbai": {Applications: 2500, Matches: 2000, Companies: 28, Students: 3000},
			},
		},
		"Delhi": {
			Total: model.RegionMetric{Applications: 2100, Matches: 1750, Companies: 31, Students: 2500},
		},
	}

	var buf bytes.Buffer
	if err := writeRegions(&buf, regions); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"STATE CITY APPLICATIONS MATCHES COMPANIES STUDENTS",
		"Delhi (total) 2100 1750 31 2500",
		"Maharashtra (total) 5200 4100 62 6400",
		"Mumbai 2500 2000 28 3000",
		"Pune 1800 1500 22 2300",
	}
	rows := fields(buf.String())
	if len(rows) != len(want) {
		t.Fatalf("got %d rows:\n%s", len(rows), buf.String())
	}
	for i, row := range rows {
		if got := strings.Join(row, " "); got != want[i] {
			t.Errorf("row %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestWriteRegionsDefaultBaseline(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRegions(&buf, config.DefaultRegionBaseline()); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "(total)"); n != len(config.DefaultRegionBaseline()) {
		t.Errorf("%d total rows, want one per state", n)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, project(t, model.Selection{State: "Delhi"})); err != nil {
		t.Fatal(err)
	}
	var data service.DashboardData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Scope != "Delhi" || data.Region == nil || data.Region.Applications != 2100 {
		t.Errorf("data = %+v", data)
	}
}

func TestUseJSONExplicitFormats(t *testing.T) {
	if !useJSON(formatJSON) {
		t.Error("json format not honoured")
	}
	if useJSON(formatTable) {
		t.Error("table format not honoured")
	}
}
