package stats

import (
	"fmt"
	"time"

	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// WeekdayNames are the calendar column headers, Monday first.
var WeekdayNames = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

// Day is one cell of the calendar.
type Day struct {
	Date     string         `json:"date"`
	Day      int            `json:"day"`
	InMonth  bool           `json:"in_month"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status,omitempty"`
}

// Calendar is a month grid of six Monday-first weeks.
type Calendar struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Title string    `json:"title"`
	Weeks [6][7]Day `json:"weeks"`
}

// Month lays out the reservations of year/month on a 6x7 grid. The grid
// starts on the Monday on or before the 1st; cells of the adjacent months are
// filled too, with InMonth false.
func Month(year int, month time.Month, turns []paddio.PregameTurn) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	perDay := map[string]map[string]int{}
	for _, t := range turns {
		day := catalog.TurnDay(t)
		if len(day) < 10 {
			continue
		}
		day = day[:10]
		if perDay[day] == nil {
			perDay[day] = map[string]int{}
		}
		perDay[day][string(t.Status)]++
	}

	cal := Calendar{
		Year:  year,
		Month: int(month),
		Title: fmt.Sprintf("%s %d", monthNames[month-1], year),
	}
	for w := 0; w < 6; w++ {
		for d := 0; d < 7; d++ {
			date := start.AddDate(0, 0, w*7+d)
			key := date.Format(time.DateOnly)
			cell := Day{
				Date:    key,
				Day:     date.Day(),
				InMonth: date.Month() == month,
			}
			if counts, ok := perDay[key]; ok {
				cell.ByStatus = counts
				for _, n := range counts {
					cell.Total += n
				}
			}
			cal.Weeks[w][d] = cell
		}
	}
	return cal
}
