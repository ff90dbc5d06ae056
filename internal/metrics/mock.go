package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics and ExportLog interfaces for
// testing. It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	fetches          map[string]int
	fetchFailures    map[string]int
	fetchDurations   []float64
	exports          map[string]int
	mutations        map[string]int
	mutationFailures map[string]int
	broadcastsSent   int
	slackNotifSent   int
	slackNotifFailed int
	loginsRejected   map[string]int
	startupTime      float64
	entries          []Entry
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		fetches:          map[string]int{},
		fetchFailures:    map[string]int{},
		fetchDurations:   make([]float64, 0),
		exports:          map[string]int{},
		mutations:        map[string]int{},
		mutationFailures: map[string]int{},
		loginsRejected:   map[string]int{},
	}
}

var (
	_ Metrics   = (*Mock)(nil)
	_ ExportLog = (*Mock)(nil)
)

func (m *Mock) IncFetches(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[resource]++
}

func (m *Mock) IncFetchFailures(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFailures[resource]++
}

func (m *Mock) ObserveFetchDuration(resource string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDurations = append(m.fetchDurations, seconds)
}

func (m *Mock) IncExports(resource, format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports[resource+"/"+format]++
}

func (m *Mock) IncMutations(resource, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations[resource+"/"+op]++
}

func (m *Mock) IncMutationFailures(resource, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationFailures[resource+"/"+op]++
}

func (m *Mock) IncBroadcastsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcastsSent++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncLoginsRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginsRejected[reason]++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) Record(ctx context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *Mock) Recent(ctx context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Entry{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *Mock) Totals(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := map[string]int{}
	for _, e := range m.entries {
		totals[e.Resource]++
	}
	return totals, nil
}

// Fetches returns how many times IncFetches was called for resource.
func (m *Mock) Fetches(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[resource]
}

// FetchFailures returns how many times IncFetchFailures was called for resource.
func (m *Mock) FetchFailures(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchFailures[resource]
}

// Exports returns how many times IncExports was called for resource and format.
func (m *Mock) Exports(resource, format string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports[resource+"/"+format]
}

// Mutations returns how many times IncMutations was called for resource and op.
func (m *Mock) Mutations(resource, op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations[resource+"/"+op]
}

// MutationFailures returns how many times IncMutationFailures was called.
func (m *Mock) MutationFailures(resource, op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutationFailures[resource+"/"+op]
}

// BroadcastsSent returns the number of times IncBroadcastsSent was called.
func (m *Mock) BroadcastsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broadcastsSent
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// LoginsRejected returns how many logins were rejected for reason.
func (m *Mock) LoginsRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginsRejected[reason]
}

// Entries returns every recorded export.
func (m *Mock) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
