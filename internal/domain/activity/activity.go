// Package activity derives study streaks and calendar views from the learning
// and test history of a user's sets. Every function here is total: records
// with absent dates are ignored.
package activity

import (
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
)

// Log is the set of days with recorded activity together with the number of
// learning sessions per day.
type Log struct {
	active   map[domain.Date]struct{}
	sessions map[domain.Date]int
}

// FromSets collects activity from learning and test records of sets.
func FromSets(sets []domain.CardSet) Log {
	log := Log{
		active:   make(map[domain.Date]struct{}),
		sessions: make(map[domain.Date]int),
	}
	for i := range sets {
		for _, rec := range sets[i].LearningHistory {
			if rec.Date.IsZero() {
				continue
			}
			log.active[rec.Date] = struct{}{}
			log.sessions[rec.Date]++
		}
		for _, rec := range sets[i].TestHistory {
			if !rec.Date.IsZero() {
				log.active[rec.Date] = struct{}{}
			}
		}
	}
	return log
}

// Active reports whether anything was studied on d.
func (l Log) Active(d domain.Date) bool {
	_, ok := l.active[d]
	return ok
}

// Sessions returns the number of learning sessions recorded on d.
func (l Log) Sessions(d domain.Date) int {
	return l.sessions[d]
}

// Streak counts consecutive active days walking backward from today.
// An inactive today means a streak of zero.
func (l Log) Streak(today domain.Date) int {
	n := 0
	for d := today; l.Active(d); d = d.AddDays(-1) {
		n++
	}
	return n
}

// StreakDates returns the days of the current streak, most recent first.
func (l Log) StreakDates(today domain.Date) []domain.Date {
	var dates []domain.Date
	for d := today; l.Active(d); d = d.AddDays(-1) {
		dates = append(dates, d)
	}
	return dates
}

// Day is one in-month cell of a calendar grid.
type Day struct {
	Day    int         `json:"day"`
	Date   domain.Date `json:"date"`
	Active bool        `json:"active"`
	Streak bool        `json:"streak"`
	Count  int         `json:"count"`
}

// Week is one Monday-first row of a calendar grid. Nil cells are blanks
// outside the month.
type Week [7]*Day

// MonthGrid lays out the given month as Monday-first weeks with leading and
// trailing blanks. Streak membership is measured from today.
func (l Log) MonthGrid(year int, month time.Month, today domain.Date) []Week {
	streak := make(map[domain.Date]bool)
	for _, d := range l.StreakDates(today) {
		streak[d] = true
	}

	first := domain.NewDate(year, month, 1)
	offset := mondayIndex(first.Weekday())

	var weeks []Week
	var week Week
	col := offset
	for d := first; d.Month() == first.Month(); d = d.AddDays(1) {
		week[col] = &Day{
			Day:    d.Day(),
			Date:   d,
			Active: l.Active(d),
			Streak: streak[d],
			Count:  l.Sessions(d),
		}
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// ChartDay is one bar of the weekly activity chart.
type ChartDay struct {
	Label string      `json:"day"`
	Date  domain.Date `json:"date"`
	Count int         `json:"count"`
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyChart returns learning session counts for the seven days ending today,
// oldest first.
func (l Log) WeeklyChart(today domain.Date) []ChartDay {
	chart := make([]ChartDay, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDays(-i)
		chart = append(chart, ChartDay{
			Label: weekdayLabels[mondayIndex(d.Weekday())],
			Date:  d,
			Count: l.Sessions(d),
		})
	}
	return chart
}

// MostPracticed returns the index of the set with the most learning sessions
// and that count. Ties go to the earlier set; -1 means no sessions at all.
func MostPracticed(sets []domain.CardSet) (int, int) {
	best, bestCount := -1, 0
	for i := range sets {
		count := 0
		for _, rec := range sets[i].LearningHistory {
			if !rec.Date.IsZero() {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	return best, bestCount
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
