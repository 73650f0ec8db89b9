package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/quiz"
)

func TestQuizService_StartTest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	set := f.createSet(t, "ala", "Words", "a", "1", "b", "2", "c", "3", "d", "")

	questions, err := f.quiz.StartTest(ctx, "ala", set.ID, 0)
	require.NoError(t, err)
	assert.Len(t, questions, 2, "count 0 uses the configured default")

	questions, err = f.quiz.StartTest(ctx, "ala", set.ID, quiz.AllCards)
	require.NoError(t, err)
	require.Len(t, questions, 3, "cards without an answer are not asked")
	for _, q := range questions {
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, set.Cards[q.CardIndex].Answer)
	}

	_, err = f.quiz.StartTest(ctx, "ola", set.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	_, err = f.quiz.StartTest(ctx, "ala", set.ID, -5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQuizService_FinishTest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	set := f.createSet(t, "ala", "Words", "a", "1", "b", "2", "c", "3")

	summary, err := f.quiz.FinishTest(ctx, "ala", set.ID, []quiz.Answer{
		{CardIndex: 0, Answer: "1"},
		{CardIndex: 1, Answer: "3"},
		{CardIndex: 2, Answer: "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CorrectCount)
	assert.Equal(t, 66.7, summary.Percent)

	stored, err := f.sets.Get(ctx, "ala", set.ID)
	require.NoError(t, err)
	require.Len(t, stored.TestHistory, 1)
	assert.Equal(t, domain.TestRecord{
		Date: today, Timestamp: fixedNow, CorrectCount: 2, TotalCount: 3, Percent: 66.7,
	}, stored.TestHistory[0])
	assert.Empty(t, stored.LearningHistory, "tests are not learning sessions")

	_, err = f.quiz.FinishTest(ctx, "ala", set.ID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.quiz.FinishTest(ctx, "ala", set.ID, []quiz.Answer{{CardIndex: 9}})
	assert.ErrorIs(t, err, domain.ErrCardIndex)

	stored, err = f.sets.Get(ctx, "ala", set.ID)
	require.NoError(t, err)
	assert.Len(t, stored.TestHistory, 1, "failed grading records nothing")
}
