package trend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opencampus/campus-core/internal/infrastructure/config"
	"github.com/opencampus/campus-core/internal/infrastructure/trend"
	"github.com/opencampus/campus-core/internal/occupancy"
)

// fakeInfluxServer answers pings and captures line-protocol writes.
type fakeInfluxServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []string
}

func newFakeInfluxServer(t *testing.T) *fakeInfluxServer {
	t.Helper()

	f := &fakeInfluxServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ping"):
			w.WriteHeader(http.StatusNoContent)
		case strings.Contains(r.URL.Path, "/write"):
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.bodies = append(f.bodies, string(body))
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *fakeInfluxServer) received() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.bodies, "\n")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "campus",
		Bucket:        "occupancy",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:8086")
	cfg.Enabled = false

	_, err := trend.Connect(cfg)
	if !errors.Is(err, trend.ErrDisabled) {
		t.Fatalf("Connect with disabled config: got %v, want ErrDisabled", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:59999")

	_, err := trend.Connect(cfg)
	if err == nil {
		t.Fatal("Connect to unreachable server: expected error")
	}
	if !errors.Is(err, trend.ErrConnectionFailed) {
		t.Errorf("Connect error: got %v, want ErrConnectionFailed", err)
	}
}

func TestConnectAndHealthCheck(t *testing.T) {
	srv := newFakeInfluxServer(t)

	rec, err := trend.Connect(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer rec.Close()

	if !rec.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}
	if err := rec.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestRecordBuildingOccupancy(t *testing.T) {
	srv := newFakeInfluxServer(t)

	rec, err := trend.Connect(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer rec.Close()

	rec.RecordBuildingOccupancy([]occupancy.BuildingOccupancy{
		{BuildingCode: "MW", Total: 12, Free: 5},
		{BuildingCode: "MI", Total: 8, Free: 8},
	}, time.Date(2026, 5, 12, 10, 30, 0, 0, time.UTC))
	rec.Flush()

	got := srv.received()
	if !strings.Contains(got, "building_occupancy") {
		t.Errorf("write body missing measurement: %q", got)
	}
	if !strings.Contains(got, "building=MW") || !strings.Contains(got, "building=MI") {
		t.Errorf("write body missing building tags: %q", got)
	}
}

func TestRecordAfterClose(t *testing.T) {
	srv := newFakeInfluxServer(t)

	rec, err := trend.Connect(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Must be silent no-ops.
	rec.RecordBuildingOccupancy([]occupancy.BuildingOccupancy{{BuildingCode: "MW", Total: 1, Free: 1}}, time.Now())
	rec.RecordRoomUtilisation("MW 1001", "MW", 0.5, time.Now())
	rec.Flush()

	if rec.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
	if err := rec.HealthCheck(context.Background()); !errors.Is(err, trend.ErrNotConnected) {
		t.Errorf("HealthCheck after Close: got %v, want ErrNotConnected", err)
	}
}
