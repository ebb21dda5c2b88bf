package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/database"
	"github.com/stemsi/placement-dashboard/internal/logger"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/repository"
)

func main() {
	var replace bool
	flag.BoolVar(&replace, "replace", false, "Delete every stored row before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewRegionMetricRepository(pool)
	baseline := config.DefaultRegionBaseline()

	fmt.Printf("=== Seeding %d states ===\n", len(baseline))

	if replace {
		n, err := repo.ReplaceAll(ctx, baseline)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to replace region metrics")
		}
		fmt.Printf("\nSeed completed! Replaced table with %d rows.\n", n)
		return
	}

	rows := repository.RowsFromBaseline(baseline)
	successCount := 0
	for _, row := range rows {
		if err := repo.Upsert(ctx, row); err != nil {
			fmt.Printf("Error upserting %s: %v\n", label(row), err)
			continue
		}
		successCount++
	}

	fmt.Printf("\nSeed completed! Successfully upserted %d/%d rows.\n", successCount, len(rows))
}

func label(row model.RegionMetricRow) string {
	if row.City == "" {
		return row.State + " (total)"
	}
	return row.State + "/" + row.City
}
