package trend

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/opencampus/campus-core/internal/infrastructure/config"
	"github.com/opencampus/campus-core/internal/occupancy"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds

	millisecondsPerSecond = 1000
)

// Recorder writes occupancy points to InfluxDB.
//
// All methods are safe for concurrent use. Writes are non-blocking:
// points are batched by the underlying client and flushed on the
// configured interval, on Flush, and on Close.
type Recorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	cfg      config.InfluxDBConfig

	connected bool
	mu        sync.RWMutex

	// onError is called when async write errors occur.
	onError func(err error)
}

// Connect establishes a connection to the InfluxDB server, verifies it
// with a ping, and configures the batched non-blocking write API.
//
// Returns ErrDisabled when trend recording is off in configuration and
// ErrConnectionFailed when the server is unreachable or unhealthy.
func Connect(cfg config.InfluxDBConfig) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- values validated above to be positive
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	r := &Recorder{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		cfg:       cfg,
		connected: true,
	}

	go r.handleWriteErrors(r.writeAPI.Errors())

	return r, nil
}

// handleWriteErrors forwards async write errors to the callback.
func (r *Recorder) handleWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		r.mu.RLock()
		callback := r.onError
		r.mu.RUnlock()

		if callback != nil {
			callback(err)
		}
	}
}

// RecordBuildingOccupancy writes one point per building with its free
// and total room counts. The write is non-blocking.
func (r *Recorder) RecordBuildingOccupancy(occupancies []occupancy.BuildingOccupancy, at time.Time) {
	if !r.IsConnected() {
		return
	}

	for _, occ := range occupancies {
		point := write.NewPoint(
			"building_occupancy",
			map[string]string{
				"building": occ.BuildingCode,
			},
			map[string]interface{}{
				"free":  occ.Free,
				"total": occ.Total,
			},
			at,
		)
		r.writeAPI.WritePoint(point)
	}
}

// RecordRoomUtilisation writes the fraction of the day window a room is
// reserved, tagged by room and building.
func (r *Recorder) RecordRoomUtilisation(roomCode, buildingCode string, fraction float64, at time.Time) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"room_utilisation",
		map[string]string{
			"room":     roomCode,
			"building": buildingCode,
		},
		map[string]interface{}{
			"fraction": fraction,
		},
		at,
	)
	r.writeAPI.WritePoint(point)
}

// SetOnError sets a callback invoked when async write errors occur.
// Writes are non-blocking, so errors arrive asynchronously; use this
// to log write failures.
func (r *Recorder) SetOnError(callback func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = callback
}

// IsConnected returns the last known connection state. For an active
// check use HealthCheck.
func (r *Recorder) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// HealthCheck pings InfluxDB and reports whether it is reachable.
func (r *Recorder) HealthCheck(ctx context.Context) error {
	if !r.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := r.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("trend health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("trend health check failed: server not healthy")
	}
	return nil
}

// Flush blocks until all buffered points are written. Safe to call
// after Close (no-op).
func (r *Recorder) Flush() {
	if r.writeAPI == nil {
		return
	}

	r.mu.RLock()
	connected := r.connected
	r.mu.RUnlock()

	if !connected {
		return
	}

	r.writeAPI.Flush()
}

// Close flushes pending writes and shuts down the client.
func (r *Recorder) Close() error {
	if r.client == nil {
		return nil
	}

	r.mu.Lock()
	r.connected = false
	r.mu.Unlock()

	r.writeAPI.Flush()
	r.client.Close()

	return nil
}
