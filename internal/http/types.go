package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/notifier"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/pubsub"
	"github.com/mauv0809/paddio-admin/internal/session"
)

// APIFactory builds a Paddio client that authenticates with creds.
type APIFactory func(creds paddio.CredentialProvider) paddio.API

type Server struct {
	Sessions       session.SessionStore
	NewAPI         APIFactory
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	ExportLog      metrics.ExportLog
	Notifier       notifier.Notifier
	Publisher      pubsub.Publisher
	Cfg            config.Config
	Router         *http.ServeMux

	handler http.Handler
	now     func() time.Time

	limitersMu    sync.Mutex
	limiters      map[string]*clientLimiter
	limitersSwept time.Time
}
