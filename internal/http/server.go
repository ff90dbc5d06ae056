package http

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/csrf"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/notifier"
	"github.com/mauv0809/paddio-admin/internal/pubsub"
	"github.com/mauv0809/paddio-admin/internal/session"
)

func NewServer(sessions session.SessionStore, newAPI APIFactory, metricsSvc metrics.Metrics, metricsHandler http.Handler, exportLog metrics.ExportLog, notifier notifier.Notifier, publisher pubsub.Publisher, cfg config.Config) *Server {
	server := &Server{
		Sessions:       sessions,
		NewAPI:         newAPI,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		ExportLog:      exportLog,
		Notifier:       notifier,
		Publisher:      publisher,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		now:            time.Now,
		limiters:       map[string]*clientLimiter{},
	}

	server.routes()
	server.handler = server.Router
	if cfg.CSRFKey != "" {
		key := sha256.Sum256([]byte(cfg.CSRFKey))
		protect := csrf.Protect(key[:],
			csrf.Path("/"),
			csrf.Secure(false),
			csrf.CookieName("paddio_csrf"),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
		)
		server.handler = Chain(server.Router, plaintextMiddleware, protect)
		log.Info("CSRF protection enabled")
	}
	return server
}

func (s *Server) routes() {
	// Every route gets the params middleware and a session; everything but
	// login, logout and the session probe also requires a super admin.
	open := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, s.sessionMiddleware)
	}
	protected := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, s.sessionMiddleware, s.requireSuperAdmin)
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /login", Chain(s.LoginHandler(), paramsMiddleware, s.loginRateLimit, s.sessionMiddleware))
	s.Router.Handle("POST /logout", open(s.LogoutHandler()))
	s.Router.Handle("GET /session", open(s.SessionHandler()))

	s.Router.Handle("GET /{$}", protected(http.RedirectHandler("/dashboard", http.StatusSeeOther)))
	s.Router.Handle("GET /dashboard", protected(s.DashboardHandler()))
	for _, name := range []string{"admins", "users", "clubs", "courts", "notifications", "matches", "reservations"} {
		res, err := catalog.Lookup(name)
		if err != nil {
			log.Fatalf("route for unregistered resource %s", name)
		}
		s.Router.Handle("GET /"+name, protected(s.ListHandler(res)))
	}
	s.Router.Handle("GET /clubs/{id}/courts", protected(s.ClubCourtsHandler()))
	s.Router.Handle("POST /notifications", protected(s.BroadcastHandler()))
	s.Router.Handle("GET /users/{id}/reservations", protected(s.UserReservationsHandler()))
	s.Router.Handle("POST /users/{id}/notify", protected(s.SendToUserHandler()))
	s.Router.Handle("GET /reservations/by-club", protected(s.ReservationsByClubHandler()))
	s.Router.Handle("GET /reservations/by-time", protected(s.ReservationsByTimeHandler()))
	s.Router.Handle("GET /reservations-calendar", protected(s.ReservationsCalendarHandler()))

	s.Router.Handle("POST /{resource}", protected(s.MutationHandler(catalog.OpCreate)))
	s.Router.Handle("PUT /{resource}/{id}", protected(s.MutationHandler(catalog.OpUpdate)))
	s.Router.Handle("DELETE /{resource}/{id}", protected(s.MutationHandler(catalog.OpDelete)))
	s.Router.Handle("POST /{resource}/{id}/toggle-status", protected(s.MutationHandler(catalog.OpToggle)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
