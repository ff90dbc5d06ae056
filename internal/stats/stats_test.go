package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCompute(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	data := Data{
		Users: []paddio.User{
			{ID: 1, IsActive: true, Gender: ptr("Masculino"), Category: ptr("4ta")},
			{ID: 2, IsActive: true, Gender: ptr("F"), Category: ptr("4ta")},
			{ID: 3, Gender: nil, Category: ptr("6ta")},
			{ID: 4, Gender: ptr("otro")},
		},
		Clubs: []paddio.Club{{ID: 1, IsActive: ptr(true)}, {ID: 2, IsActive: ptr(false)}, {ID: 3}},
		Matches: []paddio.Match{
			{ID: 1, StartTime: "2025-03-02T18:00:00", Players: []paddio.Player{{Gender: ptr("m")}, {Gender: ptr("f")}}},
			{ID: 2, StartTime: "2025-02-10T18:00:00"},
			{ID: 3, StartTime: "2024-09-10T18:00:00"},
			{ID: 4, StartTime: "2024-10-01T09:00:00"},
		},
		Reservations: []paddio.PregameTurn{
			{ID: 1, Status: paddio.TurnPending},
			{ID: 2, Status: paddio.TurnPending},
			{ID: 3, Status: paddio.TurnCompleted},
		},
	}

	s := Compute(data, now)

	assert.Equal(t, 4, s.TotalUsers)
	assert.Equal(t, 2, s.ActiveUsers)
	assert.Equal(t, 3, s.TotalClubs)
	assert.Equal(t, 2, s.ActiveClubs)
	assert.Equal(t, 1, s.InactiveClubs)
	assert.Equal(t, 1, s.MixedMatches)
	assert.InDelta(t, 0.25, s.MixedShare, 1e-9)

	require.Len(t, s.MatchesByMonth, MonthsShown)
	assert.Equal(t, Count{Key: "2024-10", Label: "oct 2024", Count: 1}, s.MatchesByMonth[0])
	assert.Equal(t, Count{Key: "2025-02", Label: "feb 2025", Count: 1}, s.MatchesByMonth[4])
	assert.Equal(t, Count{Key: "2025-03", Label: "mar 2025", Count: 1}, s.MatchesByMonth[5])

	require.Len(t, s.ReservationsByStatus, 5)
	assert.Equal(t, Count{Key: "AVAILABLE", Label: "Disponible", Color: "default", Count: 0}, s.ReservationsByStatus[0])
	assert.Equal(t, Count{Key: "PENDING", Label: "Pendiente", Color: "warning", Count: 2}, s.ReservationsByStatus[1])
	assert.Equal(t, 1, s.ReservationsByStatus[4].Count)

	assert.Equal(t, []Count{
		{Key: "male", Label: "Masculino", Count: 1},
		{Key: "female", Label: "Femenino", Count: 1},
		{Key: "unknown", Label: "Sin dato", Count: 2},
	}, s.UsersByGender)

	require.Len(t, s.UsersByCategory, 3)
	assert.Equal(t, Count{Key: "4ta", Label: "4ta", Count: 2}, s.UsersByCategory[0])
	assert.Equal(t, "6ta", s.UsersByCategory[1].Label)
	assert.Equal(t, "Sin categoría", s.UsersByCategory[2].Label)
}

func TestCompute_DashboardTotals(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	data := Data{
		Users: []paddio.User{
			{ID: 1, IsActive: true, IsProfileComplete: true, CreatedAt: "2025-03-14T10:00:00"},
			{ID: 2, IsActive: true, IsProfileComplete: true, CreatedAt: "2025-03-01T10:00:00", IsAdmin: true},
			{ID: 3, IsActive: false, CreatedAt: "2025-01-20"},
			{ID: 4, IsActive: true, CreatedAt: "2024-03-31T23:00:00Z", IsSuperAdmin: true},
			{ID: 5, IsActive: true},
		},
		Admins: []paddio.Admin{{ID: 1, IsActive: true}, {ID: 2, IsActive: true}, {ID: 3}},
		Notifications: []paddio.BroadcastHistoryItem{
			{ID: 1, CreatedAt: "2025-03-12T09:00:00", Data: &paddio.BroadcastData{SentCount: 30, FailedCount: 2}},
			{ID: 2, CreatedAt: "2025-02-01T09:00:00", Data: &paddio.BroadcastData{SentCount: 10}},
			{ID: 3, CreatedAt: "2025-03-14T09:00:00"},
		},
	}

	s := Compute(data, now)

	assert.Equal(t, 4, s.ActiveUsers)
	assert.Equal(t, 1, s.InactiveUsers)
	assert.Equal(t, 2, s.CompleteProfiles)
	assert.Equal(t, 1, s.NewUsersLast7Days)
	assert.Equal(t, 2, s.NewUsersLast30Days)

	assert.Equal(t, 3, s.TotalAdmins)
	assert.Equal(t, 2, s.ActiveAdmins)
	assert.Equal(t, 1, s.InactiveAdmins)

	assert.Equal(t, 3, s.TotalBroadcasts)
	assert.Equal(t, 2, s.BroadcastsLast7Days)
	assert.Equal(t, 40, s.NotificationsSent)
	assert.Equal(t, 2, s.NotificationsFailed)

	require.Len(t, s.UsersByMonth, SignupMonths)
	assert.Equal(t, MonthlyUsers{Key: "2024-04", Label: "abr 2024"}, s.UsersByMonth[0])
	assert.Equal(t, MonthlyUsers{Key: "2025-01", Label: "ene 2025", Players: 1, Total: 1}, s.UsersByMonth[9])
	assert.Equal(t, MonthlyUsers{Key: "2025-03", Label: "mar 2025", Players: 1, Admins: 1, Total: 2}, s.UsersByMonth[11])

	assert.Equal(t, []Alert{
		{Level: "warning", Message: "Muchos perfiles incompletos: 3 de 5"},
	}, s.Alerts)
}

func TestCompute_Alerts(t *testing.T) {
	data := Data{
		Users: []paddio.User{
			{ID: 1, IsActive: true, IsProfileComplete: true},
			{ID: 2, IsProfileComplete: true},
			{ID: 3, IsProfileComplete: true},
		},
		Clubs: []paddio.Club{{ID: 1, IsActive: ptr(false)}, {ID: 2, IsActive: ptr(false)}},
	}

	s := Compute(data, time.Now())

	assert.Equal(t, []Alert{
		{Level: "warning", Message: "Alto porcentaje de usuarios inactivos: 2 de 3"},
		{Level: "info", Message: "2 club(s) inactivo(s)"},
	}, s.Alerts)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(Data{}, time.Now())
	assert.Zero(t, s.MixedShare)
	assert.Len(t, s.MatchesByMonth, MonthsShown)
	assert.Len(t, s.UsersByMonth, SignupMonths)
	assert.NotNil(t, s.Alerts)
	assert.Empty(t, s.Alerts)
}

func TestLoad(t *testing.T) {
	mock := paddio.NewMockClient().
		WithCollection("users", []paddio.User{{ID: 1}}).
		WithCollection("clubs", []paddio.Club{{ID: 1}, {ID: 2}}).
		WithCollection("admins", []paddio.Admin{{ID: 4}}).
		WithCollection("matches", []paddio.Match{}).
		WithCollection("reservations", []paddio.PregameTurn{{ID: 9}}).
		WithCollection("notifications", []paddio.BroadcastHistoryItem{{ID: 1}, {ID: 2}})

	data, err := Load(context.Background(), mock)

	require.NoError(t, err)
	assert.Len(t, data.Users, 1)
	assert.Len(t, data.Clubs, 2)
	assert.Empty(t, data.Matches)
	assert.Len(t, data.Reservations, 1)
	assert.Len(t, data.Admins, 1)
	assert.Len(t, data.Notifications, 2)
	assert.ElementsMatch(t, []string{"users", "clubs", "admins", "matches", "reservations", "notifications"}, mock.FetchCollectionCalls)
}

func TestLoad_AnyFailureFails(t *testing.T) {
	mock := paddio.NewMockClient()
	mock.FetchCollectionFunc = func(resource string) (json.RawMessage, error) {
		if resource == "matches" {
			return nil, errors.New("boom")
		}
		return json.RawMessage("[]"), nil
	}

	_, err := Load(context.Background(), mock)
	assert.Error(t, err)
}

func TestByClub(t *testing.T) {
	turns := []paddio.PregameTurn{
		{ID: 1, ClubID: 2, ClubName: ptr("Sur"), Date: "2025-03-02", StartTime: "10:00", Status: paddio.TurnPending},
		{ID: 2, ClubID: 1, ClubName: ptr("Norte"), Date: "2025-03-01", Status: paddio.TurnCancelled},
		{ID: 3, ClubID: 2, ClubName: ptr("Sur"), Date: "2025-03-01", StartTime: "09:00", Status: paddio.TurnPending},
		{ID: 4, ClubID: 7, Date: "2025-03-01"},
	}

	groups := ByClub(turns)

	require.Len(t, groups, 3)
	assert.Equal(t, "Club 7", groups[0].ClubName)
	assert.Equal(t, "Norte", groups[1].ClubName)
	assert.Equal(t, "Sur", groups[2].ClubName)
	assert.Equal(t, 2, groups[2].Total)
	assert.Equal(t, int64(3), groups[2].Turns[0].ID)
	assert.Equal(t, 2, groups[2].ByStatus[0].Count)
}

func TestByHour(t *testing.T) {
	turns := []paddio.PregameTurn{
		{ID: 1, StartTime: "2025-03-01T18:30:00"},
		{ID: 2, StartTime: "09:00"},
		{ID: 3, StartTime: "18:00"},
		{ID: 4, StartTime: ""},
		{ID: 5, StartTime: "xx:00"},
	}

	groups := ByHour(turns)

	require.Len(t, groups, 2)
	assert.Equal(t, 9, groups[0].Hour)
	assert.Equal(t, "09:00", groups[0].Label)
	assert.Equal(t, 18, groups[1].Hour)
	assert.Equal(t, 2, groups[1].Total)
}

func TestMonth(t *testing.T) {
	turns := []paddio.PregameTurn{
		{ID: 1, Date: "2025-03-01", Status: paddio.TurnPending},
		{ID: 2, Date: "2025-03-01", Status: paddio.TurnCompleted},
		{ID: 3, StartTime: "2025-03-31T20:00:00", Status: paddio.TurnPending},
		{ID: 4, Date: "2025-04-02", Status: paddio.TurnPending},
	}

	cal := Month(2025, time.March, turns)

	assert.Equal(t, "marzo 2025", cal.Title)
	// 1 March 2025 is a Saturday, so the grid opens on Monday 24 February.
	first := cal.Weeks[0][0]
	assert.Equal(t, "2025-02-24", first.Date)
	assert.False(t, first.InMonth)

	sat := cal.Weeks[0][5]
	assert.Equal(t, "2025-03-01", sat.Date)
	assert.True(t, sat.InMonth)
	assert.Equal(t, 2, sat.Total)
	assert.Equal(t, map[string]int{"PENDING": 1, "COMPLETED": 1}, sat.ByStatus)

	// 31 March is a Monday in the sixth row.
	assert.Equal(t, "2025-03-31", cal.Weeks[5][0].Date)
	assert.Equal(t, 1, cal.Weeks[5][0].Total)

	// 2 April spills into the last row.
	assert.Equal(t, "2025-04-02", cal.Weeks[5][2].Date)
	assert.False(t, cal.Weeks[5][2].InMonth)
	assert.Equal(t, 1, cal.Weeks[5][2].Total)
}

func TestMonth_StartsOnMonday(t *testing.T) {
	// September 2025 starts on a Monday.
	cal := Month(2025, time.September, nil)
	assert.Equal(t, "2025-09-01", cal.Weeks[0][0].Date)
	assert.Equal(t, "2025-10-12", cal.Weeks[5][6].Date)
}
