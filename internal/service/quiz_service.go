package service

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/quiz"
)

// QuizService builds and grades multiple-choice tests.
type QuizService struct {
	sets         *SetService
	rand         *Random
	defaultCount int
}

// NewQuizService creates a QuizService. A test started with count 0 uses
// defaultCount questions.
func NewQuizService(sets *SetService, random *Random, defaultCount int) *QuizService {
	return &QuizService{sets: sets, rand: random, defaultCount: defaultCount}
}

// StartTest samples count valid cards (quiz.AllCards for all of them) and
// builds a question for each.
func (s *QuizService) StartTest(ctx context.Context, owner, setID string, count int) ([]quiz.Question, error) {
	set, err := s.sets.Get(ctx, owner, setID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		count = s.defaultCount
	}

	var questions []quiz.Question
	s.rand.With(func(rng *rand.Rand) {
		questions, err = quiz.BuildTest(set.Cards, count, rng)
	})
	if err != nil {
		return nil, err
	}

	s.sets.log(ctx).Debug("test started",
		slog.String("set_id", setID),
		slog.Int("questions", len(questions)))
	return questions, nil
}

// FinishTest grades answers against the current cards and records the result.
func (s *QuizService) FinishTest(
	ctx context.Context,
	owner, setID string,
	answers []quiz.Answer,
) (*quiz.Summary, error) {
	if len(answers) == 0 {
		return nil, domain.NewValidationError("answers", "must not be empty", nil)
	}

	now := s.sets.now()
	var summary quiz.Summary
	_, err := s.sets.mutate(ctx, "finish test", owner, setID, func(set *domain.CardSet) error {
		graded, err := quiz.Grade(set.Cards, answers)
		if err != nil {
			return err
		}
		summary = graded
		set.TestHistory = append(set.TestHistory, domain.TestRecord{
			Date:         domain.DateOf(now),
			Timestamp:    now.UTC(),
			CorrectCount: graded.CorrectCount,
			TotalCount:   graded.TotalCount,
			Percent:      graded.Percent,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sets.log(ctx).Info("test finished",
		slog.String("set_id", setID),
		slog.Int("correct", summary.CorrectCount),
		slog.Int("total", summary.TotalCount))
	return &summary, nil
}
