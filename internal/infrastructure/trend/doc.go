// Package trend records occupancy time series to InfluxDB.
//
// Each time the resolver computes building occupancy, the recorder
// writes one point per building (free and total room counts). Writes
// are non-blocking and batched; failures surface through an error
// callback rather than the write path, so a slow or absent InfluxDB
// never stalls a request.
//
// The recorder is optional. When disabled in configuration, Connect
// returns ErrDisabled and callers run without trend recording.
package trend
