package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// ClubGroup is the reservations of one club.
type ClubGroup struct {
	ClubID   int64                `json:"club_id"`
	ClubName string               `json:"club_name"`
	Total    int                  `json:"total"`
	ByStatus []Count              `json:"by_status"`
	Turns    []paddio.PregameTurn `json:"turns"`
}

// HourGroup is the reservations starting within one hour of the day.
type HourGroup struct {
	Hour  int                  `json:"hour"`
	Label string               `json:"label"`
	Total int                  `json:"total"`
	Turns []paddio.PregameTurn `json:"turns"`
}

// ByClub groups reservations by club, clubs ordered by name, turns ordered
// by date and start time.
func ByClub(turns []paddio.PregameTurn) []ClubGroup {
	index := map[int64]int{}
	var groups []ClubGroup
	for _, t := range turns {
		i, ok := index[t.ClubID]
		if !ok {
			name := fmt.Sprintf("Club %d", t.ClubID)
			if t.ClubName != nil && *t.ClubName != "" {
				name = *t.ClubName
			}
			i = len(groups)
			index[t.ClubID] = i
			groups = append(groups, ClubGroup{ClubID: t.ClubID, ClubName: name})
		}
		groups[i].Turns = append(groups[i].Turns, t)
	}

	for i := range groups {
		g := &groups[i]
		g.Total = len(g.Turns)
		sortTurns(g.Turns)
		g.ByStatus = statusCounts(g.Turns)
	}
	slices.SortStableFunc(groups, func(a, b ClubGroup) int {
		return cmp.Compare(strings.ToLower(a.ClubName), strings.ToLower(b.ClubName))
	})
	return groups
}

// ByHour groups reservations by the hour they start. Turns without a
// readable start time are left out.
func ByHour(turns []paddio.PregameTurn) []HourGroup {
	buckets := map[int][]paddio.PregameTurn{}
	for _, t := range turns {
		hour, ok := startHour(t.StartTime)
		if !ok {
			continue
		}
		buckets[hour] = append(buckets[hour], t)
	}

	groups := make([]HourGroup, 0, len(buckets))
	for hour, ts := range buckets {
		sortTurns(ts)
		groups = append(groups, HourGroup{
			Hour:  hour,
			Label: fmt.Sprintf("%02d:00", hour),
			Total: len(ts),
			Turns: ts,
		})
	}
	slices.SortFunc(groups, func(a, b HourGroup) int { return cmp.Compare(a.Hour, b.Hour) })
	return groups
}

func startHour(s string) (int, bool) {
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[i+1:]
	}
	if len(s) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func sortTurns(turns []paddio.PregameTurn) {
	slices.SortStableFunc(turns, func(a, b paddio.PregameTurn) int {
		if c := cmp.Compare(catalog.TurnDay(a), catalog.TurnDay(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
}

func statusCounts(turns []paddio.PregameTurn) []Count {
	counts := map[paddio.TurnStatus]int{}
	for _, t := range turns {
		counts[t.Status]++
	}
	out := make([]Count, 0, len(paddio.TurnStatuses))
	for _, status := range paddio.TurnStatuses {
		style := catalog.TurnStyle(status)
		out = append(out, Count{Key: string(status), Label: style.Label, Color: style.Color, Count: counts[status]})
	}
	return out
}
