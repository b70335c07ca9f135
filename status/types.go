package status

import (
	"maps"
	"time"

	"github.com/s0up4200/recarr/api"
)

// WorkerKind is the closed set of background worker categories the service
// reports. Keeping this a typed enum with exhaustive dispatch means an
// unhandled category is a compile-time gap, not a silent string mismatch.
type WorkerKind int

const (
	WorkerListSync WorkerKind = iota
	WorkerEnrichment
	WorkerRecommender
	WorkerMaintenance
	WorkerUnknown
)

// knownWorkerKinds maps the wire labels onto the closed set
var knownWorkerKinds = map[string]WorkerKind{
	"list_sync":   WorkerListSync,
	"enrichment":  WorkerEnrichment,
	"recommender": WorkerRecommender,
	"maintenance": WorkerMaintenance,
}

// ParseWorkerKind maps a wire label to its kind. Unrecognized labels map to
// WorkerUnknown explicitly rather than being dropped.
func ParseWorkerKind(label string) WorkerKind {
	if kind, ok := knownWorkerKinds[label]; ok {
		return kind
	}
	return WorkerUnknown
}

// String returns the wire label for the kind
func (k WorkerKind) String() string {
	switch k {
	case WorkerListSync:
		return "list_sync"
	case WorkerEnrichment:
		return "enrichment"
	case WorkerRecommender:
		return "recommender"
	case WorkerMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// Label returns the human-readable name for dashboard rendering
func (k WorkerKind) Label() string {
	switch k {
	case WorkerListSync:
		return "List Sync"
	case WorkerEnrichment:
		return "Enrichment"
	case WorkerRecommender:
		return "Recommender"
	case WorkerMaintenance:
		return "Maintenance"
	default:
		return "Unknown"
	}
}

// Snapshot is the merged view of the service's status. Each section is
// sourced by an independent query; a section stays at its previous value
// when its source fails, so one bad call never blanks good data.
type Snapshot struct {
	Sync    *api.SyncStatus
	Health  *api.HealthStatus
	Workers map[WorkerKind]api.WorkerStatus

	// Per-source freshness. Zero means the source has never succeeded.
	SyncUpdated    time.Time
	HealthUpdated  time.Time
	WorkersUpdated time.Time

	// Busy is derived from the sync and worker sections on every merge.
	Busy bool
}

// clone returns a copy safe to hand to readers
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Sync != nil {
		sync := *s.Sync
		out.Sync = &sync
	}
	if s.Health != nil {
		health := *s.Health
		out.Health = &health
	}
	if s.Workers != nil {
		out.Workers = maps.Clone(s.Workers)
	}
	return out
}

func (s Snapshot) deriveBusy() bool {
	if s.Sync != nil && s.Sync.ActiveSyncs > 0 {
		return true
	}
	for _, w := range s.Workers {
		if w.Running() {
			return true
		}
	}
	return false
}
