// Package api provides the HTTP REST API for Campus Core.
//
// It exposes the spatial views (buildings, rooms, floors), occupancy
// queries (free rooms, building rollups), and the aggregated schedule,
// plus ingestion endpoints for the upstream feeds.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opencampus/campus-core/internal/campus"
	"github.com/opencampus/campus-core/internal/infrastructure/config"
	"github.com/opencampus/campus-core/internal/infrastructure/logging"
	"github.com/opencampus/campus-core/internal/infrastructure/trend"
	"github.com/opencampus/campus-core/internal/occupancy"
	"github.com/opencampus/campus-core/internal/schedule"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config          *config.Config
	Logger          *logging.Logger
	Snapshots       *campus.SnapshotStore
	Floors          *campus.FloorNormalizer
	FacilityRepo    campus.Repository
	ReservationRepo occupancy.Repository
	Schedule        *schedule.Store
	Aggregator      *schedule.Aggregator
	Trend           *trend.Recorder // optional: nil disables trend recording
	Location        *time.Location
	Version         string
}

// Server is the HTTP API server for Campus Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg             *config.Config
	logger          *logging.Logger
	snapshots       *campus.SnapshotStore
	floors          *campus.FloorNormalizer
	facilityRepo    campus.Repository
	reservationRepo occupancy.Repository
	schedule        *schedule.Store
	aggregator      *schedule.Aggregator
	trend           *trend.Recorder
	location        *time.Location
	version         string
	server          *http.Server
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if deps.Schedule == nil {
		return nil, fmt.Errorf("schedule store is required")
	}
	if deps.Aggregator == nil {
		deps.Aggregator = schedule.NewAggregator(deps.Config.ExamDuration())
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}

	return &Server{
		cfg:             deps.Config,
		logger:          deps.Logger,
		snapshots:       deps.Snapshots,
		floors:          deps.Floors,
		facilityRepo:    deps.FacilityRepo,
		reservationRepo: deps.ReservationRepo,
		schedule:        deps.Schedule,
		aggregator:      deps.Aggregator,
		trend:           deps.Trend,
		location:        deps.Location,
		version:         deps.Version,
	}, nil
}

// Start begins listening for HTTP connections. The listener runs in a
// background goroutine; stop it with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.API.Host, s.cfg.API.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.API.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.API.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.API.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.API.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server. It waits up to 10 seconds
// for in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
