package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Fetches            *prometheus.CounterVec
	FetchFailures      *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec
	Exports            *prometheus.CounterVec
	Mutations          *prometheus.CounterVec
	MutationFailures   *prometheus.CounterVec
	BroadcastsSent     prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	LoginsRejected     *prometheus.CounterVec
	StartupTimeSeconds prometheus.Gauge
}

// Entry is one produced export file.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"-"`
	Resource  string    `json:"resource"`
	Format    string    `json:"format"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// store handles export log database operations.
type store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}
