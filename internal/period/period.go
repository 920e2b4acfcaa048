// Package period resolves a possibly out of range (month, year) pair into a
// calendar month and the navigation fields around it.
package period

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

// Context describes one resolved calendar month relative to now.
type Context struct {
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	MonthName string    `json:"monthName"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`

	// PrevMonth and NextMonth are plain month-1 and month+1, so they can be
	// 0 or 13. PrevYear is the year of the previous period.
	PrevMonth int `json:"prevMonth"`
	PrevYear  int `json:"prevYear"`
	NextMonth int `json:"nextMonth"`

	NowMonth int  `json:"nowMonth"`
	NowYear  int  `json:"nowYear"`
	Readonly bool `json:"readonly"`
}

// Resolve fills missing values from now and folds any month overflow or
// underflow into the year. Ranges are in UTC.
func Resolve(month, year *int, now time.Time) Context {
	m := helpers.ValueOr(month, int(now.Month()))
	y := helpers.ValueOr(year, now.Year())

	offset, zeroBased := floorDivMod(m-1, 12)
	y += offset
	m = zeroBased + 1

	start := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	prevYear := y
	if m == 1 {
		prevYear = y - 1
	}

	nowMonth, nowYear := int(now.Month()), now.Year()
	return Context{
		Month:     m,
		Year:      y,
		MonthName: start.Month().String()[:3],
		Start:     start,
		End:       start.AddDate(0, 1, 0),
		PrevMonth: m - 1,
		PrevYear:  prevYear,
		NextMonth: m + 1,
		NowMonth:  nowMonth,
		NowYear:   nowYear,
		Readonly:  y < nowYear || (y == nowYear && m < nowMonth),
	}
}

// Of resolves concrete values.
func Of(month, year int, now time.Time) Context {
	return Resolve(&month, &year, now)
}

// Previous re-resolves the immediately preceding month.
func (c Context) Previous(now time.Time) Context {
	return Of(c.Month-1, c.Year, now)
}

// Contains reports whether t falls in [Start, End).
func (c Context) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(c.Start) && t.Before(c.End)
}

// Matches reports whether t is in the given month and year.
func Matches(t time.Time, month, year int) bool {
	t = t.UTC()
	return int(t.Month()) == month && t.Year() == year
}

func floorDivMod(a, b int) (int, int) {
	q, r := a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}
