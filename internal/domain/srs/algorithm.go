package srs

import (
	"github.com/phrazzld/fiszki/internal/domain"
)

// RunResult is the outcome of a single card within one completed learning run.
type RunResult int8

// Possible run results. NotReached means the run ended before the card was shown.
const (
	NotReached RunResult = iota
	Understood
	NotUnderstood
)

// ResultOf converts a recorded answer into a RunResult.
func ResultOf(understood bool) RunResult {
	if understood {
		return Understood
	}
	return NotUnderstood
}

// applyAnswer returns stats updated with one flashcard answer.
//
// Promotion happens as soon as the understood streak reaches
// MasteryAnswerStreak. Demotion needs DemotionStreak consecutive misses, so a
// single miss never clears mastery.
func applyAnswer(stats domain.CardStatistics, understood bool, params *Params) domain.CardStatistics {
	next := stats
	next.ShownCount++

	if understood {
		next.UnderstoodCount++
		next.UnderstoodStreak++
		next.NotUnderstoodStreak = 0
	} else {
		next.NotUnderstoodCount++
		next.UnderstoodStreak = 0
		next.NotUnderstoodStreak++
		if next.Mastered && next.NotUnderstoodStreak >= params.DemotionStreak {
			next.Mastered = false
		}
	}

	next.SuccessPercent = domain.ComputeSuccessPercent(next.UnderstoodCount, next.ShownCount)

	if next.UnderstoodStreak >= params.MasteryAnswerStreak {
		next.Mastered = true
	}

	return next
}

// cardInterval returns the number of days until a card is due after a good
// session, given the session streak after that session.
func cardInterval(sessionOkStreak int, params *Params) int {
	switch {
	case sessionOkStreak >= params.MasterySessionStreak:
		return params.MatureInterval
	case sessionOkStreak == 2:
		return params.SecondInterval
	default:
		return params.FirstInterval
	}
}

// applySessionOutcome returns stats updated with the card's result in one
// completed learning run. NotReached leaves stats untouched.
func applySessionOutcome(
	stats domain.CardStatistics,
	today domain.Date,
	result RunResult,
	params *Params,
) domain.CardStatistics {
	if result == NotReached {
		return stats
	}

	next := stats
	next.LastSeenDate = today

	if result == Understood {
		next.SessionOkStreak++
		next.FailStreakSessions = 0
		next.TotalSessionsOk++
		next.NextDue = today.AddDays(cardInterval(next.SessionOkStreak, params))
	} else {
		next.FailStreakSessions++
		next.SessionOkStreak = 0
		if next.Mastered && next.FailStreakSessions >= params.DemotionStreak {
			next.Mastered = false
		}
	}

	if !next.Mastered && (next.SessionOkStreak >= params.MasterySessionStreak ||
		(next.ShownCount >= params.MasteryMinShown && next.SuccessPercent >= params.MasteryMinPercent)) {
		next.Mastered = true
	}

	// Between the two thresholds the flag keeps its previous value.
	if next.NotUnderstoodCount >= params.LeechMinMisses && next.SuccessPercent < params.LeechEnterPercent {
		next.Leech = true
	} else if next.SuccessPercent >= params.LeechExitPercent {
		next.Leech = false
	}

	return next
}

// setInterval returns the number of days until a set is due again given how
// many distinct days it has been fully completed on.
func setInterval(completedDays int, params *Params) int {
	switch {
	case completedDays < params.SetDailyTierLimit:
		return params.SetDailyInterval
	case completedDays < params.SetFrequentTierLimit:
		return params.SetFrequentInterval
	default:
		return params.SetWeeklyInterval
	}
}

// needsReview reports whether a card belongs in a review run on today.
func needsReview(stats domain.CardStatistics, today domain.Date, params *Params) bool {
	if !stats.Mastered {
		return stats.ShownCount < params.ReviewMinShown || stats.SuccessPercent < params.ReviewPercent
	}
	if !stats.NextDue.IsZero() && !stats.NextDue.After(today) {
		return true
	}
	return !stats.LastSeenDate.IsZero() && today.DaysSince(stats.LastSeenDate) > params.InactivityDays
}
