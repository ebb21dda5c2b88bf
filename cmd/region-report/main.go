package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/database"
	"github.com/stemsi/placement-dashboard/internal/logger"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/repository"
	"github.com/stemsi/placement-dashboard/internal/service"
	"golang.org/x/term"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "region-report",
		Short: "Print region-scoped dashboard figures",
	}

	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(regionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func projectCmd() *cobra.Command {
	var state, city, format string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show the charts rescaled to a state or city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDashboard(func(ctx context.Context, svc *service.DashboardService) error {
				data, err := svc.GetDashboard(ctx, model.Selection{State: state, City: city})
				if err != nil {
					return err
				}
				if useJSON(format) {
					return writeJSON(cmd.OutOrStdout(), data)
				}
				return writeProjection(cmd.OutOrStdout(), data)
			})
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "", "State to scope to")
	cmd.Flags().StringVarP(&city, "city", "c", "", "City within the state")
	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format: auto, table or json")
	return cmd
}

func regionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the baseline table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDashboard(func(ctx context.Context, svc *service.DashboardService) error {
				data, err := svc.GetBaseline(ctx)
				if err != nil {
					return err
				}
				if useJSON(format) {
					return writeJSON(cmd.OutOrStdout(), data.Regions)
				}
				return writeRegions(cmd.OutOrStdout(), data.Regions)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format: auto, table or json")
	return cmd
}

// withDashboard builds a DashboardService over the configured baseline
// source. The postgres source is read directly, without the Redis cache.
func withDashboard(run func(ctx context.Context, svc *service.DashboardService) error) error {
	cfg := config.Load()
	log := logger.SetupWriter(cfg.LogLevel, "pretty", os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var source service.BaselineSource = repository.NewStaticRegionRepository()
	if cfg.BaselineSource == config.BaselineSourcePostgres {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = repository.NewRegionMetricRepository(pool)
	}

	return run(ctx, service.NewDashboardService(source, config.DefaultBaselineShapes(), log))
}

// useJSON picks JSON when asked to, or when stdout is not a terminal.
func useJSON(format string) bool {
	switch format {
	case formatJSON:
		return true
	case formatTable:
		return false
	default:
		return !term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeProjection(w io.Writer, data *service.DashboardData) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if data.Region == nil {
		fmt.Fprintln(tw, "Scope:\tall regions")
	} else {
		fmt.Fprintf(tw, "Scope:\t%s\n", data.Scope)
		fmt.Fprintf(tw, "Applications:\t%d\n", data.Region.Applications)
		fmt.Fprintf(tw, "Matches:\t%d\n", data.Region.Matches)
		fmt.Fprintf(tw, "Companies:\t%d\n", data.Region.Companies)
		fmt.Fprintf(tw, "Students:\t%d\n", data.Region.Students)
	}

	fmt.Fprintln(tw, "\nAPPLICATION STATUS\tVALUE")
	for _, c := range data.ApplicationStatus {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Value)
	}

	fmt.Fprintln(tw, "\nCOMPANY STATUS\tVALUE")
	for _, c := range data.CompanyStatus {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Value)
	}

	fmt.Fprintln(tw, "\nMONTH\tAPPLICATIONS\tMATCHES\tCOMPANIES")
	for _, m := range data.MonthlyTrends {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", m.Month, m.Applications, m.Matches, m.Companies)
	}

	fmt.Fprintln(tw, "\nSECTOR\tSTUDENTS\tCOMPANIES")
	for _, s := range data.SectorDistribution {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Sector, s.Students, s.Companies)
	}

	return tw.Flush()
}

func writeRegions(w io.Writer, regions model.RegionBaseline) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATE\tCITY\tAPPLICATIONS\tMATCHES\tCOMPANIES\tSTUDENTS")

	states := make([]string, 0, len(regions))
	for state := range regions {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		totals := regions[state]
		writeMetricRow(tw, state, "(total)", totals.Total)

		cities := make([]string, 0, len(totals.Cities))
		for city := range totals.Cities {
			cities = append(cities, city)
		}
		sort.Strings(cities)
		for _, city := range cities {
			writeMetricRow(tw, "", city, totals.Cities[city])
		}
	}

	return tw.Flush()
}

func writeMetricRow(w io.Writer, state, city string, m model.RegionMetric) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", state, city, m.Applications, m.Matches, m.Companies, m.Students)
}
