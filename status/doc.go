// Package status polls the recommendation service's operational endpoints
// and maintains a merged snapshot of sync progress, component health, and
// background-worker state.
//
// Each source is queried independently on every tick: a failing endpoint
// leaves its section of the snapshot at the last good value instead of
// blanking the whole view. The Poller has an explicit Start/Stop lifecycle
// and Stop discards any results still in flight.
package status
