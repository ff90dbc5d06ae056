package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/csrf"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/notifier"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/pubsub"
	"github.com/mauv0809/paddio-admin/internal/stats"
)

const (
	msgAccessDenied   = "Acceso denegado"
	msgNothingExport  = "No hay datos para exportar"
	msgInvalidID      = "Identificador inválido"
	msgInvalidPayload = "Datos inválidos"
	recentExports     = 5
)

type messageResponse struct {
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Logout  string          `json:"logout,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	SuperAdmin    bool                `json:"is_super_admin"`
	User          *paddio.CurrentUser `json:"user,omitempty"`
	CSRFToken     string              `json:"csrf_token,omitempty"`
}

type dashboardResponse struct {
	Summary       stats.Summary   `json:"summary"`
	RecentExports []metrics.Entry `json:"recent_exports"`
	ExportTotals  map[string]int  `json:"export_totals"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Error: message})
}

func accessDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, messageResponse{Error: msgAccessDenied, Logout: logoutRoute})
}

// api returns a client bound to the request's session.
func (s *Server) api(r *http.Request) paddio.API {
	return s.NewAPI(s.Sessions.Credentials(sessionFromContext(r).ID))
}

func actor(r *http.Request) string {
	sess := sessionFromContext(r)
	if sess.User == nil {
		return ""
	}
	if sess.User.Name != "" {
		return sess.User.Name
	}
	return sess.User.Email
}

// upstreamError reports a failed Paddio call. A rejected token logs the
// session out and sends the browser to the login page, except on the login
// route itself.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		log.Debug("Request cancelled by client", "path", r.URL.Path)
		return
	}
	if errors.Is(err, paddio.ErrUnauthorized) {
		if r.URL.Path == loginRoute {
			writeError(w, http.StatusUnauthorized, paddio.UserMessage(err))
			return
		}
		if id := sessionFromContext(r).ID; id != "" {
			if err := s.Sessions.Clear(r.Context(), id); err != nil {
				log.Error("Failed to clear session", "error", err)
			}
		}
		http.Redirect(w, r, loginRoute, http.StatusSeeOther)
		return
	}

	status := http.StatusBadGateway
	var apiErr *paddio.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		status = apiErr.StatusCode
	}
	log.Error("Paddio API request failed", "path", r.URL.Path, "error", err)
	writeError(w, status, paddio.UserMessage(err))
}

func (s *Server) publish(r *http.Request, event pubsub.Event) {
	if event.Actor == "" {
		event.Actor = actor(r)
	}
	if err := s.Publisher.Publish(r.Context(), event); err != nil {
		log.Error("Failed to publish audit event", "type", event.Type, "error", err)
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK!"))
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidPayload)
			return
		}
		username := strings.TrimSpace(r.PostForm.Get("username"))
		password := r.PostForm.Get("password")
		if username == "" || password == "" {
			writeError(w, http.StatusBadRequest, "Usuario y contraseña son obligatorios")
			return
		}

		token, err := s.NewAPI(paddio.NewMemoryCredentials("")).Login(ctx, username, password)
		if err != nil {
			s.Metrics.IncLoginsRejected("credentials")
			s.upstreamError(w, r, err)
			return
		}
		user, err := s.NewAPI(paddio.NewMemoryCredentials(token.AccessToken)).Me(ctx)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}

		sess := sessionFromContext(r)
		if err := s.Sessions.Save(ctx, sess.ID, token.AccessToken, user); err != nil {
			log.Error("Failed to save session", "error", err)
			writeError(w, http.StatusInternalServerError, paddio.FallbackMessage)
			return
		}
		s.publish(r, pubsub.Event{Type: pubsub.EventLogin, Actor: user.Name, Details: map[string]string{"role": string(user.Role)}})

		if user.Role != paddio.RoleSuperAdmin {
			s.Metrics.IncLoginsRejected("role")
			log.Warn("Login by non super admin", "user", user.Name, "role", user.Role)
			accessDenied(w)
			return
		}
		log.Info("User logged in", "user", user.Name)
		writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, SuperAdmin: true, User: &user})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r)
		if err := s.Sessions.Clear(r.Context(), sess.ID); err != nil {
			log.Error("Failed to clear session", "error", err)
			writeError(w, http.StatusInternalServerError, paddio.FallbackMessage)
			return
		}
		if sess.Authenticated() {
			s.publish(r, pubsub.Event{Type: pubsub.EventLogout})
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Sesión cerrada"})
	}
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r)
		resp := sessionResponse{
			Authenticated: sess.Authenticated(),
			SuperAdmin:    sess.IsSuperAdmin(),
			User:          sess.User,
		}
		if s.Cfg.CSRFKey != "" {
			resp.CSRFToken = csrf.Token(r)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		data, err := stats.Load(ctx, s.api(r))
		s.Metrics.ObserveFetchDuration("dashboard", time.Since(start).Seconds())
		if err != nil {
			s.Metrics.IncFetchFailures("dashboard")
			s.upstreamError(w, r, err)
			return
		}
		s.Metrics.IncFetches("dashboard")

		resp := dashboardResponse{Summary: stats.Compute(data, s.now())}
		if resp.RecentExports, err = s.ExportLog.Recent(ctx, recentExports); err != nil {
			log.Error("Failed to read export log", "error", err)
		}
		if resp.ExportTotals, err = s.ExportLog.Totals(ctx); err != nil {
			log.Error("Failed to read export totals", "error", err)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// load fetches a whole collection and counts the attempt.
func (s *Server) load(r *http.Request, res catalog.Resource) (catalog.Dataset, error) {
	start := time.Now()
	ds, err := res.Load(r.Context(), s.api(r))
	s.Metrics.ObserveFetchDuration(res.Name(), time.Since(start).Seconds())
	if err != nil {
		s.Metrics.IncFetchFailures(res.Name())
		return nil, err
	}
	s.Metrics.IncFetches(res.Name())
	return ds, nil
}

// ListHandler serves one page of a resource as JSON, or with format=csv|xlsx
// the whole filtered and sorted set as a download.
func (s *Server) ListHandler(res catalog.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := s.load(r, res)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		s.respondList(w, r, res, ds)
	}
}

func (s *Server) respondList(w http.ResponseWriter, r *http.Request, res catalog.Resource, ds catalog.Dataset) {
	q := listing.ParseQuery(r.URL.Query(), res.FilterKeys(), res.SortFields())
	if f := r.URL.Query().Get("format"); f != "" {
		format, err := export.ParseFormat(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Formato de exportación no soportado")
			return
		}
		s.download(w, r, res, ds, q, format)
		return
	}
	writeJSON(w, http.StatusOK, ds.Query(q))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, res catalog.Resource, ds catalog.Dataset, q listing.Query, format export.Format) {
	opts := catalog.ExportOptions(res, s.Cfg.Resources[res.Name()], format, s.now())
	written := false
	file, err := ds.Export(q, opts, export.SinkFunc(func(f export.File) error {
		w.Header().Set("Content-Type", f.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
		w.WriteHeader(http.StatusOK)
		written = true
		_, err := w.Write(f.Data)
		return err
	}))
	if errors.Is(err, export.ErrNothingToExport) {
		writeJSON(w, http.StatusOK, messageResponse{Message: msgNothingExport})
		return
	}
	if err != nil {
		log.Error("Export failed", "resource", res.Name(), "format", format, "error", err)
		if !written {
			writeError(w, http.StatusInternalServerError, "Error al exportar")
		}
		return
	}

	s.Metrics.IncExports(res.Name(), string(format))
	entry := metrics.Entry{
		SessionID: sessionFromContext(r).ID,
		Resource:  res.Name(),
		Format:    string(format),
		Filename:  file.Name,
		Rows:      file.Rows,
	}
	if err := s.ExportLog.Record(r.Context(), entry); err != nil {
		log.Error("Failed to record export", "error", err)
	}
	s.publish(r, pubsub.Event{
		Type:     pubsub.EventExported,
		Resource: res.Name(),
		Details:  map[string]string{"filename": file.Name, "rows": strconv.Itoa(file.Rows)},
	})
	log.Info("Export served", "resource", res.Name(), "file", file.Name, "rows", file.Rows)
}

func (s *Server) ClubCourtsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}
		courts, err := s.api(r).ClubCourts(r.Context(), clubID)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		s.respondList(w, r, catalog.Courts, catalog.Courts.From(courts))
	}
}

// notificationPayload is the body of both the broadcast and the per-user
// send forms.
type notificationPayload struct {
	Title           string         `json:"title"`
	Body            string         `json:"body"`
	Data            map[string]any `json:"data,omitempty"`
	Category        *string        `json:"category,omitempty"`
	OnlyActiveUsers *bool          `json:"only_active_users,omitempty"`
}

func (p notificationPayload) notification() (paddio.Notification, bool) {
	n := paddio.Notification{Title: strings.TrimSpace(p.Title), Body: strings.TrimSpace(p.Body), Data: p.Data}
	return n, n.Title != "" && n.Body != ""
}

type notificationResponse struct {
	Message string                    `json:"message"`
	Result  paddio.NotificationResult `json:"result"`
}

func sentMessage(result paddio.NotificationResult) string {
	return fmt.Sprintf("Notificación enviada: %d exitosas, %d fallidas", result.SentCount, result.FailedCount)
}

func sentDetails(title string, result paddio.NotificationResult) map[string]string {
	return map[string]string{
		"title":  title,
		"sent":   strconv.Itoa(result.SentCount),
		"failed": strconv.Itoa(result.FailedCount),
	}
}

func (s *Server) BroadcastHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload notificationPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidPayload)
			return
		}
		n, ok := payload.notification()
		if !ok {
			writeError(w, http.StatusBadRequest, "El título y el mensaje son obligatorios")
			return
		}
		req := paddio.BroadcastRequest{Notification: n, OnlyActiveUsers: payload.OnlyActiveUsers}
		if payload.Category != nil && strings.TrimSpace(*payload.Category) != "" {
			category := strings.TrimSpace(*payload.Category)
			req.Category = &category
		}

		result, err := s.api(r).SendBroadcast(r.Context(), req)
		if err != nil {
			s.Metrics.IncMutationFailures("notifications", "broadcast")
			s.upstreamError(w, r, err)
			return
		}
		s.Metrics.IncBroadcastsSent()
		log.Info("Broadcast sent", "title", n.Title, "sent", result.SentCount, "failed", result.FailedCount, "user", actor(r))

		b := notifier.Broadcast{Request: req, Result: result, SentBy: actor(r), SentAt: s.now()}
		if err := s.Notifier.AnnounceBroadcast(r.Context(), b, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce broadcast", "error", err)
		}
		s.publish(r, pubsub.Event{
			Type:     pubsub.EventBroadcastSent,
			Resource: "notifications",
			Details:  sentDetails(n.Title, result),
		})

		writeJSON(w, http.StatusCreated, notificationResponse{sentMessage(result), result})
	}
}

// SendToUserHandler pushes a notification to a single user.
func (s *Server) SendToUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}
		var payload notificationPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidPayload)
			return
		}
		n, ok := payload.notification()
		if !ok {
			writeError(w, http.StatusBadRequest, "El título y el mensaje son obligatorios")
			return
		}

		result, err := s.api(r).SendToUser(r.Context(), userID, n)
		if err != nil {
			s.Metrics.IncMutationFailures("users", "notify")
			s.upstreamError(w, r, err)
			return
		}
		s.Metrics.IncMutations("users", "notify")
		log.Info("Notification sent to user", "target", userID, "sent", result.SentCount, "user", actor(r))
		s.publish(r, pubsub.Event{
			Type:     pubsub.EventNotificationSent,
			Resource: "users",
			RecordID: userID,
			Details:  sentDetails(n.Title, result),
		})

		writeJSON(w, http.StatusCreated, notificationResponse{sentMessage(result), result})
	}
}

// UserReservationsHandler lists the reservation history of one user. It
// takes the same query parameters as the reservations list.
func (s *Server) UserReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}
		history, err := s.api(r).UserReservations(r.Context(), userID)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		s.respondList(w, r, catalog.Reservations, catalog.Reservations.From(history.Reservations))
	}
}

// reservations fetches the reservations and applies the request's filters.
func (s *Server) reservations(r *http.Request) ([]paddio.PregameTurn, error) {
	start := time.Now()
	turns, err := catalog.Reservations.Fetch(r.Context(), s.api(r))
	s.Metrics.ObserveFetchDuration(catalog.Reservations.Name(), time.Since(start).Seconds())
	if err != nil {
		s.Metrics.IncFetchFailures(catalog.Reservations.Name())
		return nil, err
	}
	s.Metrics.IncFetches(catalog.Reservations.Name())
	q := listing.ParseQuery(r.URL.Query(), catalog.Reservations.FilterKeys(), nil)
	return listing.ApplyFilters(turns, q.Filters, catalog.Reservations.Predicates), nil
}

func (s *Server) ReservationsByClubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turns, err := s.reservations(r)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats.ByClub(turns))
	}
}

func (s *Server) ReservationsByTimeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turns, err := s.reservations(r)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats.ByHour(turns))
	}
}

func (s *Server) ReservationsCalendarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := s.now()
		year, month := now.Year(), int(now.Month())
		if v := r.URL.Query().Get("year"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "Año inválido")
				return
			}
			year = n
		}
		if v := r.URL.Query().Get("month"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 12 {
				writeError(w, http.StatusBadRequest, "Mes inválido")
				return
			}
			month = n
		}

		turns, err := s.reservations(r)
		if err != nil {
			s.upstreamError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats.Month(year, time.Month(month), turns))
	}
}

var mutationLabels = map[catalog.Op]struct {
	metric  string
	event   pubsub.EventType
	success string
}{
	catalog.OpCreate: {"create", pubsub.EventCreated, "Creado correctamente"},
	catalog.OpUpdate: {"update", pubsub.EventUpdated, "Actualizado correctamente"},
	catalog.OpDelete: {"delete", pubsub.EventDeleted, "Eliminado correctamente"},
	catalog.OpToggle: {"toggle", pubsub.EventStatusToggled, "Estado actualizado"},
}

// MutationHandler forwards a create, update, delete or status toggle of any
// resource that supports op.
func (s *Server) MutationHandler(op catalog.Op) http.HandlerFunc {
	labels := mutationLabels[op]
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		res, err := catalog.Lookup(r.PathValue("resource"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Recurso desconocido")
			return
		}
		if !res.Supports(op) {
			writeError(w, http.StatusMethodNotAllowed, "Operación no permitida")
			return
		}

		var id int64
		if op != catalog.OpCreate {
			if id, err = strconv.ParseInt(r.PathValue("id"), 10, 64); err != nil {
				writeError(w, http.StatusBadRequest, msgInvalidID)
				return
			}
		}
		var payload map[string]any
		if op == catalog.OpCreate || op == catalog.OpUpdate {
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeError(w, http.StatusBadRequest, msgInvalidPayload)
				return
			}
		}

		api := s.api(r)
		var out json.RawMessage
		switch op {
		case catalog.OpCreate:
			out, err = api.Create(ctx, res.Name(), payload)
		case catalog.OpUpdate:
			out, err = api.Update(ctx, res.Name(), id, payload)
		case catalog.OpDelete:
			err = api.Delete(ctx, res.Name(), id)
		case catalog.OpToggle:
			out, err = api.ToggleStatus(ctx, res.Name(), id)
		}
		if err != nil {
			s.Metrics.IncMutationFailures(res.Name(), labels.metric)
			s.upstreamError(w, r, err)
			return
		}
		s.Metrics.IncMutations(res.Name(), labels.metric)
		log.Info("Record mutated", "resource", res.Name(), "op", labels.metric, "id", id, "user", actor(r))

		if op == catalog.OpDelete {
			d := notifier.Deletion{Resource: res.Title(), RecordID: id, DeletedBy: actor(r), At: s.now()}
			if err := s.Notifier.AnnounceDeletion(ctx, d, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to announce deletion", "error", err)
			}
		}
		s.publish(r, pubsub.Event{Type: labels.event, Resource: res.Name(), RecordID: id})

		status := http.StatusOK
		if op == catalog.OpCreate {
			status = http.StatusCreated
		}
		writeJSON(w, status, messageResponse{Message: labels.success, Data: out})
	}
}
