package stats

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// MonthsShown is how many months the matches-per-month series covers.
const MonthsShown = 6

// SignupMonths is how many months the users-per-month series covers.
const SignupMonths = 12

var monthNames = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// Count is one bar of a chart.
type Count struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// MonthlyUsers is the sign-ups of one month, players and administrators
// apart.
type MonthlyUsers struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Players int    `json:"players"`
	Admins  int    `json:"admins"`
	Total   int    `json:"total"`
}

// Alert is a dashboard warning.
type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Summary holds the dashboard figures.
type Summary struct {
	TotalUsers          int `json:"total_users"`
	ActiveUsers         int `json:"active_users"`
	InactiveUsers       int `json:"inactive_users"`
	CompleteProfiles    int `json:"complete_profiles"`
	NewUsersLast7Days   int `json:"new_users_last_7_days"`
	NewUsersLast30Days  int `json:"new_users_last_30_days"`
	TotalClubs          int `json:"total_clubs"`
	ActiveClubs         int `json:"active_clubs"`
	InactiveClubs       int `json:"inactive_clubs"`
	TotalAdmins         int `json:"total_admins"`
	ActiveAdmins        int `json:"active_admins"`
	InactiveAdmins      int `json:"inactive_admins"`
	TotalBroadcasts     int `json:"total_broadcasts"`
	BroadcastsLast7Days int `json:"broadcasts_last_7_days"`
	NotificationsSent   int `json:"notifications_sent"`
	NotificationsFailed int `json:"notifications_failed"`

	TotalMatches         int            `json:"total_matches"`
	MixedMatches         int            `json:"mixed_matches"`
	MixedShare           float64        `json:"mixed_share"`
	TotalReservations    int            `json:"total_reservations"`
	ReservationsByStatus []Count        `json:"reservations_by_status"`
	MatchesByMonth       []Count        `json:"matches_by_month"`
	UsersByMonth         []MonthlyUsers `json:"users_by_month"`
	UsersByGender        []Count        `json:"users_by_gender"`
	UsersByCategory      []Count        `json:"users_by_category"`
	Alerts               []Alert        `json:"alerts"`
}

// Data is the input of Compute.
type Data struct {
	Users         []paddio.User
	Clubs         []paddio.Club
	Admins        []paddio.Admin
	Matches       []paddio.Match
	Reservations  []paddio.PregameTurn
	Notifications []paddio.BroadcastHistoryItem
}

// Load fetches the collections the dashboard needs concurrently. Any failed
// fetch fails the whole load.
func Load(ctx context.Context, api paddio.API) (Data, error) {
	var (
		data Data
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)
	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Error("Failed to load dashboard data", "resource", name, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	fetch("users", func() error {
		users, err := catalog.Users.Fetch(ctx, api)
		mu.Lock()
		data.Users = users
		mu.Unlock()
		return err
	})
	fetch("clubs", func() error {
		clubs, err := catalog.Clubs.Fetch(ctx, api)
		mu.Lock()
		data.Clubs = clubs
		mu.Unlock()
		return err
	})
	fetch("admins", func() error {
		admins, err := catalog.Admins.Fetch(ctx, api)
		mu.Lock()
		data.Admins = admins
		mu.Unlock()
		return err
	})
	fetch("matches", func() error {
		matches, err := catalog.Matches.Fetch(ctx, api)
		mu.Lock()
		data.Matches = matches
		mu.Unlock()
		return err
	})
	fetch("reservations", func() error {
		turns, err := catalog.Reservations.Fetch(ctx, api)
		mu.Lock()
		data.Reservations = turns
		mu.Unlock()
		return err
	})
	fetch("notifications", func() error {
		history, err := catalog.Notifications.Fetch(ctx, api)
		mu.Lock()
		data.Notifications = history
		mu.Unlock()
		return err
	})
	wg.Wait()

	if len(errs) > 0 {
		return Data{}, fmt.Errorf("failed to load dashboard: %w", errs[0])
	}
	return data, nil
}

// Compute aggregates d. now anchors the monthly series and the 7 and 30 day
// windows.
func Compute(d Data, now time.Time) Summary {
	s := Summary{
		TotalUsers:        len(d.Users),
		TotalClubs:        len(d.Clubs),
		TotalAdmins:       len(d.Admins),
		TotalMatches:      len(d.Matches),
		TotalReservations: len(d.Reservations),
		TotalBroadcasts:   len(d.Notifications),
	}
	last7 := now.Add(-7 * 24 * time.Hour)
	last30 := now.Add(-30 * 24 * time.Hour)

	signupMonths := lastMonths(now, SignupMonths)
	signups := map[string]*MonthlyUsers{}
	for _, m := range signupMonths {
		s.UsersByMonth = append(s.UsersByMonth, MonthlyUsers{Key: m.key, Label: m.label})
	}
	for i := range s.UsersByMonth {
		signups[s.UsersByMonth[i].Key] = &s.UsersByMonth[i]
	}

	genders := map[string]int{}
	categories := map[string]int{}
	for _, u := range d.Users {
		if u.IsActive {
			s.ActiveUsers++
		} else {
			s.InactiveUsers++
		}
		if u.IsProfileComplete {
			s.CompleteProfiles++
		}
		if created, ok := export.ParseTime(u.CreatedAt); ok {
			if !created.Before(last7) {
				s.NewUsersLast7Days++
			}
			if !created.Before(last30) {
				s.NewUsersLast30Days++
			}
			if m, ok := signups[created.Format("2006-01")]; ok {
				if u.IsAdmin || u.IsSuperAdmin {
					m.Admins++
				} else {
					m.Players++
				}
				m.Total++
			}
		}
		gender := "unknown"
		if u.Gender != nil {
			switch catalog.GenderOf(*u.Gender) {
			case catalog.GenderMale:
				gender = "male"
			case catalog.GenderFemale:
				gender = "female"
			}
		}
		genders[gender]++
		category := ""
		if u.Category != nil {
			category = *u.Category
		}
		categories[category]++
	}
	for _, c := range d.Clubs {
		if c.Active() {
			s.ActiveClubs++
		} else {
			s.InactiveClubs++
		}
	}
	for _, a := range d.Admins {
		if a.IsActive {
			s.ActiveAdmins++
		} else {
			s.InactiveAdmins++
		}
	}
	for _, n := range d.Notifications {
		info := n.Info()
		s.NotificationsSent += info.SentCount
		s.NotificationsFailed += info.FailedCount
		if sent, ok := export.ParseTime(n.CreatedAt); ok && !sent.Before(last7) {
			s.BroadcastsLast7Days++
		}
	}

	months := lastMonths(now, MonthsShown)
	perMonth := map[string]int{}
	for _, m := range d.Matches {
		if catalog.IsMixed(m.Players) {
			s.MixedMatches++
		}
		if len(m.StartTime) >= 7 {
			perMonth[m.StartTime[:7]]++
		}
	}
	if s.TotalMatches > 0 {
		s.MixedShare = float64(s.MixedMatches) / float64(s.TotalMatches)
	}
	for _, month := range months {
		s.MatchesByMonth = append(s.MatchesByMonth, Count{Key: month.key, Label: month.label, Count: perMonth[month.key]})
	}

	byStatus := map[paddio.TurnStatus]int{}
	for _, t := range d.Reservations {
		byStatus[t.Status]++
	}
	for _, status := range paddio.TurnStatuses {
		style := catalog.TurnStyle(status)
		s.ReservationsByStatus = append(s.ReservationsByStatus, Count{Key: string(status), Label: style.Label, Color: style.Color, Count: byStatus[status]})
	}

	s.UsersByGender = []Count{
		{Key: "male", Label: "Masculino", Count: genders["male"]},
		{Key: "female", Label: "Femenino", Count: genders["female"]},
		{Key: "unknown", Label: "Sin dato", Count: genders["unknown"]},
	}
	for category, n := range categories {
		label := category
		if label == "" {
			label = "Sin categoría"
		}
		s.UsersByCategory = append(s.UsersByCategory, Count{Key: category, Label: label, Count: n})
	}
	slices.SortFunc(s.UsersByCategory, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	s.Alerts = alerts(s)
	return s
}

// alerts flags a high share of inactive users, inactive clubs and a
// majority of incomplete profiles.
func alerts(s Summary) []Alert {
	out := []Alert{}
	if float64(s.InactiveUsers) > float64(s.ActiveUsers)*0.3 {
		out = append(out, Alert{Level: "warning", Message: fmt.Sprintf("Alto porcentaje de usuarios inactivos: %d de %d", s.InactiveUsers, s.TotalUsers)})
	}
	if s.InactiveClubs > 0 {
		out = append(out, Alert{Level: "info", Message: fmt.Sprintf("%d club(s) inactivo(s)", s.InactiveClubs)})
	}
	incomplete := s.TotalUsers - s.CompleteProfiles
	if float64(incomplete) > float64(s.TotalUsers)*0.5 {
		out = append(out, Alert{Level: "warning", Message: fmt.Sprintf("Muchos perfiles incompletos: %d de %d", incomplete, s.TotalUsers)})
	}
	return out
}

type month struct {
	key   string
	label string
}

// lastMonths returns n months ending with now's month, oldest first.
func lastMonths(now time.Time, n int) []month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]month, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i-n+1, 0)
		out[i] = month{
			key:   m.Format("2006-01"),
			label: fmt.Sprintf("%s %d", monthNames[m.Month()-1][:3], m.Year()),
		}
	}
	return out
}
