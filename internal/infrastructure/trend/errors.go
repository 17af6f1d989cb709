package trend

import "errors"

// Sentinel errors for trend recording. Check with errors.Is:
//
//	if errors.Is(err, trend.ErrDisabled) {
//	    // Run without trend recording
//	}
var (
	// ErrNotConnected indicates the recorder is not connected to InfluxDB.
	ErrNotConnected = errors.New("trend: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("trend: connection failed")

	// ErrDisabled indicates trend recording is disabled in config.
	ErrDisabled = errors.New("trend: disabled in configuration")
)
