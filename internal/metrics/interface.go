package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncFetches(resource string)
	IncFetchFailures(resource string)
	ObserveFetchDuration(resource string, seconds float64)
	IncExports(resource, format string)
	IncMutations(resource, op string)
	IncMutationFailures(resource, op string)
	IncBroadcastsSent()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncLoginsRejected(reason string)
	SetStartupTime(duration float64)
}

// ExportLog keeps a persistent record of produced export files.
type ExportLog interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Totals(ctx context.Context) (map[string]int, error)
}
