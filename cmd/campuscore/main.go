// Campus Core - campus companion backend
//
// This is the main entry point for the Campus Core application. It
// serves the spatial campus model (buildings, rooms, floors), room
// occupancy queries, and the aggregated personal schedule over a REST
// API, backed by SQLite and fed by wholesale feed ingestion.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/opencampus/campus-core/migrations"

	"github.com/opencampus/campus-core/internal/api"
	"github.com/opencampus/campus-core/internal/campus"
	"github.com/opencampus/campus-core/internal/infrastructure/config"
	"github.com/opencampus/campus-core/internal/infrastructure/database"
	"github.com/opencampus/campus-core/internal/infrastructure/logging"
	"github.com/opencampus/campus-core/internal/infrastructure/trend"
	"github.com/opencampus/campus-core/internal/occupancy"
	"github.com/opencampus/campus-core/internal/schedule"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability.
func run(ctx context.Context) error {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Campus Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading campus timezone: %w", err)
	}

	// Open database and run migrations
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")

	// Build the spatial model from persisted facility data
	facilityRepo := campus.NewSQLiteRepository(db.DB)
	reservationRepo := occupancy.NewSQLiteRepository(db.DB)

	floors := campus.NewFloorNormalizer(cfg.Floors.Substitutions, cfg.Floors.DefaultOrder)
	snapshots := campus.NewSnapshotStore()

	records, err := facilityRepo.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading facility records: %w", err)
	}
	if len(records) > 0 {
		idx := snapshots.Swap(records, floors)
		log.Info("facility snapshot restored",
			"records", len(records),
			"rooms", len(idx.Rooms()),
			"buildings", len(idx.BuildingCodes()),
		)
	} else {
		log.Info("no facility data yet, waiting for ingestion")
	}

	scheduleStore := schedule.NewStore()
	aggregator := schedule.NewAggregator(cfg.ExamDuration())

	// Connect occupancy trend recorder (optional)
	var recorder *trend.Recorder
	if cfg.InfluxDB.Enabled {
		recorder, err = trend.Connect(cfg.InfluxDB)
		if err != nil && !errors.Is(err, trend.ErrDisabled) {
			return fmt.Errorf("connecting trend recorder: %w", err)
		}
		if recorder != nil {
			defer func() {
				log.Info("closing trend recorder")
				if closeErr := recorder.Close(); closeErr != nil {
					log.Error("error closing trend recorder", "error", closeErr)
				}
			}()
			recorder.SetOnError(func(err error) {
				log.Error("trend write error", "error", err)
			})
			log.Info("trend recorder connected",
				"url", cfg.InfluxDB.URL,
				"bucket", cfg.InfluxDB.Bucket,
			)
		}
	} else {
		log.Info("trend recording disabled")
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:          cfg,
		Logger:          log,
		Snapshots:       snapshots,
		Floors:          floors,
		FacilityRepo:    facilityRepo,
		ReservationRepo: reservationRepo,
		Schedule:        scheduleStore,
		Aggregator:      aggregator,
		Trend:           recorder,
		Location:        loc,
		Version:         version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Campus Core stopped")
	return nil
}

// getConfigPath returns the configuration file path. Uses the
// CAMPUSCORE_CONFIG environment variable if set, otherwise the default.
func getConfigPath() string {
	if path := os.Getenv("CAMPUSCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
