package domain

import "math"

// CardStatistics tracks how well the owner knows a card. Answer-level counters
// change on every flashcard shown; session-level counters change once per
// completed learning run. The zero value is a card that has never been answered.
type CardStatistics struct {
	ShownCount          int     `json:"shownCount"`
	UnderstoodCount     int     `json:"understoodCount"`
	NotUnderstoodCount  int     `json:"notUnderstoodCount"`
	SuccessPercent      float64 `json:"successPercent"`
	UnderstoodStreak    int     `json:"understoodStreak"`
	NotUnderstoodStreak int     `json:"notUnderstoodStreak"`
	Mastered            bool    `json:"mastered"`
	SessionOkStreak     int     `json:"sessionOkStreak"`
	FailStreakSessions  int     `json:"failStreakSessions"`
	LastSeenDate        Date    `json:"lastSeenDate"`
	TotalSessionsOk     int     `json:"totalSessionsOk"`
	NextDue             Date    `json:"nextDue"`
	Leech               bool    `json:"leech"`
}

// RoundPercent rounds a percentage to one decimal place.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

// ComputeSuccessPercent returns understood/shown as a percentage rounded to one
// decimal, or 0 when nothing has been shown.
func ComputeSuccessPercent(understood, shown int) float64 {
	if shown <= 0 {
		return 0
	}
	return RoundPercent(float64(understood) / float64(shown) * 100)
}

// Normalize clamps counters to be non-negative and re-derives SuccessPercent.
func (s *CardStatistics) Normalize() {
	for _, c := range []*int{
		&s.ShownCount, &s.UnderstoodCount, &s.NotUnderstoodCount,
		&s.UnderstoodStreak, &s.NotUnderstoodStreak,
		&s.SessionOkStreak, &s.FailStreakSessions, &s.TotalSessionsOk,
	} {
		if *c < 0 {
			*c = 0
		}
	}
	s.SuccessPercent = ComputeSuccessPercent(s.UnderstoodCount, s.ShownCount)
}
