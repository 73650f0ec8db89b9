package service

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/srs"
)

// RunMode selects which cards a learning run presents.
type RunMode string

// Learning run modes.
const (
	// RunRandom presents every card in shuffled order.
	RunRandom RunMode = "random"
	// RunReview presents only cards needing review, in card order.
	RunReview RunMode = "review"
)

// Valid reports whether m is a known mode.
func (m RunMode) Valid() bool {
	return m == RunRandom || m == RunReview
}

// RunCard is one card of a started run.
type RunCard struct {
	Index  int    `json:"index"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// Run is a started learning run. The client keeps it and sends the order back
// on completion.
type Run struct {
	SetID string    `json:"setId"`
	Mode  RunMode   `json:"mode"`
	Order []int     `json:"order"`
	Cards []RunCard `json:"cards"`
}

// RunReport summarises a completed run.
type RunReport struct {
	Understood     int         `json:"understood"`
	NotUnderstood  int         `json:"notUnderstood"`
	Unsolved       int         `json:"unsolved"`
	Total          int         `json:"total"`
	Completed      bool        `json:"completed"`
	NextReviewDate domain.Date `json:"nextReviewDate"`
}

// StudyService runs learning sessions over a user's sets.
type StudyService struct {
	sets *SetService
	rand *Random
}

// NewStudyService creates a StudyService.
func NewStudyService(sets *SetService, random *Random) *StudyService {
	return &StudyService{sets: sets, rand: random}
}

// StartRun returns the card order for a new run. A review run with nothing
// to review returns domain.ErrNothingDue.
func (s *StudyService) StartRun(ctx context.Context, owner, setID string, mode RunMode) (*Run, error) {
	if !mode.Valid() {
		return nil, domain.NewValidationError("mode", "must be random or review", nil)
	}
	set, err := s.sets.Get(ctx, owner, setID)
	if err != nil {
		return nil, err
	}
	if len(set.Cards) == 0 {
		return nil, domain.NewValidationError("cards", "must contain at least one card", domain.ErrNoCards)
	}

	var order []int
	switch mode {
	case RunReview:
		order = s.sets.scheduler.ReviewOrder(set, s.sets.now.today())
		if len(order) == 0 {
			return nil, domain.ErrNothingDue
		}
	default:
		s.rand.With(func(rng *rand.Rand) {
			order = rng.Perm(len(set.Cards))
		})
	}

	run := &Run{SetID: set.ID, Mode: mode, Order: order, Cards: make([]RunCard, 0, len(order))}
	for _, i := range order {
		run.Cards = append(run.Cards, RunCard{Index: i, Prompt: set.Cards[i].Prompt, Answer: set.Cards[i].Answer})
	}

	s.sets.log(ctx).Debug("learning run started",
		slog.String("set_id", setID),
		slog.String("mode", string(mode)),
		slog.Int("cards", len(order)))
	return run, nil
}

// SubmitAnswer records one flashcard answer and persists the card statistics.
func (s *StudyService) SubmitAnswer(
	ctx context.Context,
	owner, setID string,
	cardIndex int,
	understood bool,
) (domain.CardStatistics, error) {
	var stats domain.CardStatistics
	_, err := s.sets.mutate(ctx, "submit answer", owner, setID, func(set *domain.CardSet) error {
		if cardIndex < 0 || cardIndex >= len(set.Cards) {
			return domain.ErrCardIndex
		}
		card := &set.Cards[cardIndex]
		card.Statistics = s.sets.scheduler.RecordAnswer(card.Statistics, understood)
		stats = card.Statistics
		return nil
	})
	return stats, err
}

// CompleteRun closes a run. results[i] is the answer for the card at
// order[i]; nil or missing entries were not reached. A run without any
// answer records nothing.
func (s *StudyService) CompleteRun(
	ctx context.Context,
	owner, setID string,
	order []int,
	results []*bool,
) (*RunReport, error) {
	if len(results) > len(order) {
		return nil, domain.NewValidationError("results", "must not outnumber the run order", nil)
	}
	seen := make(map[int]bool, len(order))
	for _, i := range order {
		if i < 0 || seen[i] {
			return nil, domain.NewValidationError("order", "must list distinct card indices", domain.ErrCardIndex)
		}
		seen[i] = true
	}

	answered := 0
	for _, r := range results {
		if r != nil {
			answered++
		}
	}
	if answered == 0 {
		set, err := s.sets.Get(ctx, owner, setID)
		if err != nil {
			return nil, err
		}
		return &RunReport{
			Unsolved:       len(order),
			Total:          len(order),
			NextReviewDate: set.NextReviewDate,
		}, nil
	}

	now := s.sets.now()
	today := domain.DateOf(now)
	var report RunReport
	set, err := s.sets.mutate(ctx, "complete run", owner, setID, func(set *domain.CardSet) error {
		report = RunReport{Total: len(order)}
		cardResults := make([]srs.RunResult, len(set.Cards))
		last := make([]*bool, len(set.Cards))
		for pos, cardIndex := range order {
			if cardIndex >= len(set.Cards) {
				return domain.ErrCardIndex
			}
			if pos >= len(results) || results[pos] == nil {
				report.Unsolved++
				continue
			}
			understood := *results[pos]
			cardResults[cardIndex] = srs.ResultOf(understood)
			last[cardIndex] = &understood
			if understood {
				report.Understood++
			} else {
				report.NotUnderstood++
			}
		}

		covered, err := s.sets.scheduler.CompleteRun(set, today, cardResults)
		if err != nil {
			return err
		}
		report.Completed = covered

		stamp := now.UTC()
		set.LastResults = last
		set.LastStudyTimestamp = &stamp
		set.LearningHistory = append(set.LearningHistory, domain.SessionRecord{
			Date:               today,
			Timestamp:          stamp,
			UnderstoodCount:    report.Understood,
			NotUnderstoodCount: report.NotUnderstood,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.NextReviewDate = set.NextReviewDate

	s.sets.log(ctx).Info("learning run completed",
		slog.String("set_id", setID),
		slog.Int("understood", report.Understood),
		slog.Int("not_understood", report.NotUnderstood),
		slog.Bool("completed", report.Completed))
	return &report, nil
}
