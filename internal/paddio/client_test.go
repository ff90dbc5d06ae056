package paddio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResources(t *testing.T) config.Resources {
	t.Helper()
	resources, err := config.LoadResources("")
	require.NoError(t, err)
	return resources
}

func newTestClient(t *testing.T, server *httptest.Server, creds CredentialProvider) *APIClient {
	t.Helper()
	c := NewClient(server.URL, testResources(t), creds)
	c.httpClient = server.Client()
	return c
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "root", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-1","token_type":"bearer"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	token, err := client.Login(context.Background(), "root", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", token.AccessToken)
}

func TestLogin_BadCredentialsKeepsDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Usuario o contraseña incorrectos"}`)
	}))
	defer server.Close()

	creds := NewMemoryCredentials("stale")
	client := newTestClient(t, server, creds)
	_, err := client.Login(context.Background(), "root", "wrong")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Usuario o contraseña incorrectos", UserMessage(err))
	token, _ := creds.Token(context.Background())
	assert.Equal(t, "stale", token, "a failed login must not clear other credentials")
}

func TestFetchCollection_SendsBearerAndLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		assert.Equal(t, "10000", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[{"id":1,"name":"Ana","last_name":"García","email":"ana@x.com","is_active":true,"is_profile_complete":true,"height":172,"city":"Rosario","province":"Santa Fe"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok-1"))
	users, err := Collection[User](context.Background(), client, "users")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)
	assert.Equal(t, "Ana García", users[0].FullName())
	assert.True(t, users[0].IsProfileComplete)
	require.NotNil(t, users[0].Height)
	assert.Equal(t, 172.0, *users[0].Height)
	assert.Equal(t, "Santa Fe", *users[0].Province)
	assert.Nil(t, users[0].Phone)
}

func TestFetchCollection_UnwrapsDataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pregame-turns", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":7,"turn_id":3,"status":"CANCELLED","cancellation_message":"Lluvia"}],"total":1}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	turns, err := Collection[PregameTurn](context.Background(), client, "reservations")

	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, TurnCancelled, turns[0].Status)
	assert.Equal(t, int64(3), turns[0].TurnID)
	assert.Equal(t, "Lluvia", *turns[0].CancellationMessage)
}

func TestFetchCollection_PathsOfEveryResource(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	for _, name := range []string{"admins", "users", "clubs", "courts", "matches", "notifications"} {
		_, err := client.FetchCollection(context.Background(), name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"/users/admins",
		"/users/",
		"/clubs/",
		"/courts/",
		"/matches/",
		"/notifications/broadcast-history",
	}, paths)
}

func TestFetchCollection_AdminsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"admins":[{"id":2,"name":"Laura","email":"laura@x.com","phone":"341-555","club_id":4,"is_active":true,"role":"admin"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	admins, err := Collection[Admin](context.Background(), client, "admins")

	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Laura", admins[0].Name)
	assert.Equal(t, "341-555", *admins[0].Phone)
	assert.Equal(t, RoleAdmin, admins[0].Role)
}

func TestFetchCollection_UnauthorizedClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Token expirado"}`)
	}))
	defer server.Close()

	creds := NewMemoryCredentials("expired")
	client := newTestClient(t, server, creds)
	_, err := client.FetchCollection(context.Background(), "clubs")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	token, _ := creds.Token(context.Background())
	assert.Empty(t, token)
}

func TestFetchCollection_ServerErrorIsSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	_, err := client.FetchCollection(context.Background(), "matches")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, FallbackMessage, UserMessage(err))
}

func TestFetchCollection_UnknownResource(t *testing.T) {
	client := NewClient("http://localhost", testResources(t), nil)
	_, err := client.FetchCollection(context.Background(), "tournaments")
	assert.Error(t, err)
}

func TestClubCourts_FiltersAllCourtsByClub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courts/", r.URL.Path)
		assert.Equal(t, "10000", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[
			{"id":1,"club_id":3,"name":"Cancha 1","is_indoor":true,"has_lighting":true,"is_available":true},
			{"id":2,"club_id":4,"name":"Otra"},
			{"id":3,"club_id":3,"name":"Cancha 2","surface_type":"césped"}
		]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	courts, err := client.ClubCourts(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, "Cancha 1", courts[0].Name)
	assert.True(t, courts[0].IsIndoor)
	assert.True(t, courts[0].HasLighting)
	assert.Equal(t, "césped", *courts[1].SurfaceType)

	courts, err = client.ClubCourts(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, courts)
	assert.Empty(t, courts)
}

func TestUserReservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pregame-turns/user/8/reservations", r.URL.Path)
		fmt.Fprint(w, `{"user_id":8,"reservations":[{"id":1,"date":"2025-03-10","start_time":"18:00","status":"PENDING","club_name":"Norte","court_name":"Cancha 1","players_count":3,"is_mixed_match":true}],"total":1}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	got, err := client.UserReservations(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, int64(8), got.UserID)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Reservations, 1)
	assert.Equal(t, "Cancha 1", *got.Reservations[0].CourtName)
	assert.Equal(t, 3, *got.Reservations[0].PlayersCount)
	assert.True(t, *got.Reservations[0].IsMixedMatch)
}

func TestUserReservations_MissingListIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	got, err := client.UserReservations(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, int64(8), got.UserID)
	assert.NotNil(t, got.Reservations)
	assert.Empty(t, got.Reservations)
}

func TestMutations_UseResourcePaths(t *testing.T) {
	type seen struct{ method, path, body string }
	var requests []seen
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, seen{r.Method, r.URL.Path, string(body)})
		fmt.Fprint(w, `{"id":9}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	ctx := context.Background()

	_, err := client.Create(ctx, "clubs", map[string]any{"name": "Norte"})
	require.NoError(t, err)
	_, err = client.Update(ctx, "clubs", 9, map[string]any{"name": "Sur"})
	require.NoError(t, err)
	_, err = client.ToggleStatus(ctx, "admins", 4)
	require.NoError(t, err)
	require.NoError(t, client.Delete(ctx, "users", 5))

	require.Len(t, requests, 4)
	assert.Equal(t, seen{http.MethodPost, "/clubs/", `{"name":"Norte"}`}, requests[0])
	assert.Equal(t, seen{http.MethodPut, "/clubs/9", `{"name":"Sur"}`}, requests[1])
	assert.Equal(t, seen{http.MethodPatch, "/users/admins/4/toggle-status", ""}, requests[2])
	assert.Equal(t, seen{http.MethodDelete, "/users/5", ""}, requests[3])
}

func TestSendBroadcast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications/send-broadcast", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("only_active_users"))
		assert.Equal(t, "4ta", r.URL.Query().Get("category"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "Torneo", "body": "Sábado"}, body)
		fmt.Fprint(w, `{"success":true,"message":"ok","sent_count":40,"failed_count":2}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	category := "4ta"
	result, err := client.SendBroadcast(context.Background(), BroadcastRequest{
		Notification: Notification{Title: "Torneo", Body: "Sábado"},
		Category:     &category,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 40, result.SentCount)
	assert.Equal(t, 2, result.FailedCount)
}

func TestSendBroadcast_AllUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("only_active_users"))
		assert.False(t, r.URL.Query().Has("category"))
		fmt.Fprint(w, `{"success":true,"message":"ok","sent_count":1,"failed_count":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	onlyActive := false
	_, err := client.SendBroadcast(context.Background(), BroadcastRequest{
		Notification:    Notification{Title: "Aviso", Body: "Mantenimiento"},
		OnlyActiveUsers: &onlyActive,
	})
	require.NoError(t, err)
}

func TestSendToUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications/send-to-user/8", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "Hola", "body": "Tu reserva", "data": map[string]any{"turn_id": float64(3)}}, body)
		fmt.Fprint(w, `{"success":true,"message":"Notificación enviada","sent_count":1,"failed_count":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server, NewMemoryCredentials("tok"))
	result, err := client.SendToUser(context.Background(), 8, Notification{Title: "Hola", Body: "Tu reserva", Data: map[string]any{"turn_id": 3}})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SentCount)
	assert.Equal(t, "Notificación enviada", result.Message)
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"No encontrado"}`, "No encontrado"},
		{"validation list", `{"detail":[{"msg":"campo requerido"},{"msg":"email inválido"}]}`, "campo requerido; email inválido"},
		{"message field", `{"message":"Fallo"}`, "Fallo"},
		{"not json", `<html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}
