package srs

import (
	"errors"

	"github.com/phrazzld/fiszki/internal/domain"
)

// Common errors
var (
	ErrNilParams     = errors.New("srs params cannot be nil")
	ErrInvalidParams = errors.New("srs params must be positive")
	ErrNilSet        = errors.New("card set cannot be nil")
	ErrResultCount   = errors.New("run results do not match the number of cards")
)

// Service defines the interface for card statistics and set scheduling.
// Card-level methods return updated copies; set-level methods mutate the set
// they are given.
type Service interface {
	// RecordAnswer applies one flashcard answer to the card statistics.
	RecordAnswer(stats domain.CardStatistics, understood bool) domain.CardStatistics

	// RecordSessionOutcome applies the card's result in a completed learning run.
	RecordSessionOutcome(stats domain.CardStatistics, today domain.Date, result RunResult) domain.CardStatistics

	// IsDue reports whether the set should be studied on today.
	IsDue(set *domain.CardSet, today domain.Date) bool

	// CompleteRun applies per-card run results (indexed like set.Cards) and then
	// updates the set schedule. It reports whether every card was covered today.
	CompleteRun(set *domain.CardSet, today domain.Date, results []RunResult) (bool, error)

	// OnRunCompleted records today as a completed day and reschedules the set
	// when every card was seen today. It reports whether that happened.
	OnRunCompleted(set *domain.CardSet, today domain.Date) bool

	// ReviewOrder returns the indices of cards needing review, in card order.
	ReviewOrder(set *domain.CardSet, today domain.Date) []int

	// NormalizeSchedule repairs the set review date read from storage.
	NormalizeSchedule(set *domain.CardSet, today domain.Date)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if params.MasteryAnswerStreak < 1 || params.MasterySessionStreak < 1 || params.DemotionStreak < 1 ||
		params.FirstInterval < 1 || params.SecondInterval < 1 || params.MatureInterval < 1 ||
		params.SetDailyInterval < 1 || params.SetFrequentInterval < 1 || params.SetWeeklyInterval < 1 {
		return nil, ErrInvalidParams
	}
	return &defaultService{params: params}, nil
}

func (s *defaultService) RecordAnswer(stats domain.CardStatistics, understood bool) domain.CardStatistics {
	return applyAnswer(stats, understood, s.params)
}

func (s *defaultService) RecordSessionOutcome(
	stats domain.CardStatistics,
	today domain.Date,
	result RunResult,
) domain.CardStatistics {
	return applySessionOutcome(stats, today, result, s.params)
}

func (s *defaultService) IsDue(set *domain.CardSet, today domain.Date) bool {
	if set == nil {
		return false
	}
	if set.NeverPracticed() {
		return true
	}
	return !set.NextReviewDate.IsZero() && !set.NextReviewDate.After(today)
}

func (s *defaultService) CompleteRun(set *domain.CardSet, today domain.Date, results []RunResult) (bool, error) {
	if set == nil {
		return false, ErrNilSet
	}
	if len(results) != len(set.Cards) {
		return false, ErrResultCount
	}
	for i, result := range results {
		set.Cards[i].Statistics = s.RecordSessionOutcome(set.Cards[i].Statistics, today, result)
	}
	return s.OnRunCompleted(set, today), nil
}

func (s *defaultService) OnRunCompleted(set *domain.CardSet, today domain.Date) bool {
	if set == nil || len(set.Cards) == 0 {
		return false
	}
	for _, card := range set.Cards {
		if !card.Statistics.LastSeenDate.Equal(today) {
			return false
		}
	}
	set.MarkCompleted(today)
	set.NextReviewDate = today.AddDays(setInterval(set.CompletedDayCount(), s.params))
	return true
}

func (s *defaultService) ReviewOrder(set *domain.CardSet, today domain.Date) []int {
	if set == nil {
		return nil
	}
	order := make([]int, 0, len(set.Cards))
	for i, card := range set.Cards {
		if needsReview(card.Statistics, today, s.params) {
			order = append(order, i)
		}
	}
	return order
}

func (s *defaultService) NormalizeSchedule(set *domain.CardSet, today domain.Date) {
	if set == nil {
		return
	}
	set.Normalize()
	if set.NeverPracticed() {
		return
	}
	if set.NextReviewDate.IsZero() && set.CompletedDayCount() > 0 {
		set.NextReviewDate = today.AddDays(setInterval(set.CompletedDayCount(), s.params))
	}
}
