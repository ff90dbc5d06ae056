package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_fetches_total",
			Help: "Collections fetched from the Paddio API.",
		}, []string{"resource"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_fetch_failures_total",
			Help: "Collection fetches that failed.",
		}, []string{"resource"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paddio_admin_fetch_duration_seconds",
			Help:    "Duration of collection fetches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_exports_total",
			Help: "Export files produced.",
		}, []string{"resource", "format"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_mutations_total",
			Help: "Create, update, delete and toggle-status calls that succeeded.",
		}, []string{"resource", "op"}),
		MutationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_mutation_failures_total",
			Help: "Create, update, delete and toggle-status calls that failed.",
		}, []string{"resource", "op"}),
		BroadcastsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paddio_admin_broadcasts_sent_total",
			Help: "Broadcast notifications accepted by the API.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paddio_admin_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paddio_admin_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		LoginsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddio_admin_logins_rejected_total",
			Help: "Login attempts that did not open a session.",
		}, []string{"reason"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paddio_admin_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Fetches,
		s.FetchFailures,
		s.FetchDuration,
		s.Exports,
		s.Mutations,
		s.MutationFailures,
		s.BroadcastsSent,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.LoginsRejected,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncFetches(resource string) {
	s.Fetches.WithLabelValues(resource).Inc()
}

func (s *Service) IncFetchFailures(resource string) {
	s.FetchFailures.WithLabelValues(resource).Inc()
}

func (s *Service) ObserveFetchDuration(resource string, seconds float64) {
	s.FetchDuration.WithLabelValues(resource).Observe(seconds)
}

func (s *Service) IncExports(resource, format string) {
	s.Exports.WithLabelValues(resource, format).Inc()
}

func (s *Service) IncMutations(resource, op string) {
	s.Mutations.WithLabelValues(resource, op).Inc()
}

func (s *Service) IncMutationFailures(resource, op string) {
	s.MutationFailures.WithLabelValues(resource, op).Inc()
}

func (s *Service) IncBroadcastsSent() {
	s.BroadcastsSent.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncLoginsRejected(reason string) {
	s.LoginsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
