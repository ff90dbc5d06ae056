package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/csrf"
	"github.com/mauv0809/paddio-admin/internal/session"
	"golang.org/x/time/rate"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey  contextKey = "dryRun"
	sessionKey contextKey = "session"
)

const (
	sessionCookie = "paddio_session"
	loginRoute    = "/login"
	logoutRoute   = "/logout"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "path", r.URL.Path)
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			// The level is process-wide; concurrent requests log verbosely too.
			defer log.SetLevel(originalLevel)
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// sessionMiddleware resolves the browser's session from its cookie, starting
// a fresh logged-out session when the cookie is missing or stale.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var sess session.Session
		found := false
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			existing, err := s.Sessions.Get(ctx, cookie.Value)
			switch {
			case err == nil:
				sess, found = existing, true
			case errors.Is(err, session.ErrNotFound):
				log.Debug("Unknown session cookie, starting a new session")
			default:
				log.Error("Failed to read session", "error", err)
				writeError(w, http.StatusInternalServerError, "Error interno")
				return
			}
		}
		if !found {
			id, err := s.Sessions.Create(ctx)
			if err != nil {
				log.Error("Failed to create session", "error", err)
				writeError(w, http.StatusInternalServerError, "Error interno")
				return
			}
			sess = session.Session{ID: id}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, sess)))
	})
}

func sessionFromContext(r *http.Request) session.Session {
	sess, _ := r.Context().Value(sessionKey).(session.Session)
	return sess
}

// requireSuperAdmin sends logged-out visitors to the login page and rejects
// accounts that are not super admins.
func (s *Server) requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r)
		if !sess.Authenticated() {
			http.Redirect(w, r, loginRoute, http.StatusSeeOther)
			return
		}
		if !sess.IsSuperAdmin() {
			log.Warn("Rejected non super admin", "user", sess.User.Name, "role", sess.User.Role, "path", r.URL.Path)
			accessDenied(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loginRateLimit throttles login attempts per client address.
func (s *Server) loginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.loginLimiter(clientAddr(r)).Allow() {
			s.Metrics.IncLoginsRejected("rate_limited")
			log.Warn("Too many login attempts", "client", clientAddr(r))
			writeError(w, http.StatusTooManyRequests, "Demasiados intentos, esperá un minuto")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limiterIdle is how long a client may stay quiet before its limiter is
// dropped. A full bucket refills within a minute, so a dropped limiter is
// indistinguishable from the fresh one that replaces it.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

func (s *Server) loginLimiter(client string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	now := s.now()
	if now.Sub(s.limitersSwept) >= limiterIdle {
		for addr, l := range s.limiters {
			if now.Sub(l.lastSeen) >= limiterIdle {
				delete(s.limiters, addr)
			}
		}
		s.limitersSwept = now
	}
	if l, ok := s.limiters[client]; ok {
		l.lastSeen = now
		return l.Limiter
	}
	perMinute := s.Cfg.LoginRatePerMinute
	if perMinute < 1 {
		perMinute = 10
	}
	l := &clientLimiter{Limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute), lastSeen: now}
	s.limiters[client] = l
	return l.Limiter
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// plaintextMiddleware marks requests that did not arrive over TLS so the CSRF
// check does not demand an https Referer from them.
func plaintextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.Warn("CSRF validation failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	writeError(w, http.StatusForbidden, "Token CSRF inválido")
}
