package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardSet(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid set skips blank pairs", func(t *testing.T) {
		set, err := NewCardSet("ala", "  Capitals ", []CardInput{
			{Prompt: "Poland", Answer: "Warsaw"},
			{Prompt: " ", Answer: ""},
			{Prompt: "", Answer: "Berlin"},
		}, now)
		require.NoError(t, err)
		assert.Len(t, set.ID, 32)
		assert.Equal(t, "Capitals", set.Name)
		assert.Equal(t, "ala", set.Owner)
		assert.Equal(t, now, set.CreatedAt)
		require.Len(t, set.Cards, 2)
		assert.Equal(t, CardStatistics{}, set.Cards[0].Statistics)
		assert.True(t, set.NextReviewDate.IsZero())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewCardSet("ala", "   ", []CardInput{{Prompt: "a", Answer: "b"}}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("no cards", func(t *testing.T) {
		_, err := NewCardSet("ala", "Empty", []CardInput{{}}, now)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrNoCards)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "cards", verr.Field)
	})
}

func TestBuildCardsPreservesStatistics(t *testing.T) {
	t.Parallel()

	previous := []Card{
		{Prompt: "one", Answer: "1", Statistics: CardStatistics{ShownCount: 4}},
		{Prompt: "two", Answer: "2", Statistics: CardStatistics{ShownCount: 7}},
	}
	cards := BuildCards([]CardInput{
		{Prompt: "one", Answer: "uno"},
		{Prompt: "deux", Answer: "2"},
		{Prompt: "three", Answer: "3"},
	}, previous)

	require.Len(t, cards, 3)
	assert.Equal(t, 4, cards[0].Statistics.ShownCount, "same position and prompt keeps stats")
	assert.Equal(t, 0, cards[1].Statistics.ShownCount, "changed prompt resets stats")
	assert.Equal(t, 0, cards[2].Statistics.ShownCount, "new card starts fresh")
}

func TestCardSetCompletedDays(t *testing.T) {
	t.Parallel()
	d := NewDate(2025, time.June, 10)

	var set CardSet
	assert.True(t, set.NeverPracticed())
	set.MarkCompleted(d)
	set.MarkCompleted(d)
	set.MarkCompleted(d.AddDays(1))
	assert.Equal(t, 2, set.CompletedDayCount())
	assert.True(t, set.HasCompleted(d))
	assert.False(t, set.NeverPracticed())
}

func TestCardSetNormalize(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "abc",
		"owner": "ala",
		"name": "Old",
		"cards": [{"prompt": "p", "answer": "a", "statistics": {"shownCount": 3, "understoodCount": 2, "successPercent": 12}}, {"prompt": "q", "answer": "b"}],
		"daysCompleted": ["bogus"],
		"nextReviewDate": "2025-01-02"
	}`
	var set CardSet
	require.NoError(t, json.Unmarshal([]byte(raw), &set))

	set.Normalize()

	assert.Empty(t, set.DaysCompleted)
	assert.True(t, set.NextReviewDate.IsZero(), "inactive set must not carry a review date")
	assert.Equal(t, 66.7, set.Cards[0].Statistics.SuccessPercent)
	assert.Equal(t, CardStatistics{}, set.Cards[1].Statistics)
}

func TestComputeSuccessPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ComputeSuccessPercent(0, 0))
	assert.Equal(t, 75.0, ComputeSuccessPercent(3, 4))
	assert.Equal(t, 33.3, ComputeSuccessPercent(1, 3))
	assert.Equal(t, 85.7, ComputeSuccessPercent(6, 7))
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		login    string
		password string
		valid    bool
	}{
		{"valid", "ala", "kot-ma-ale", true},
		{"empty login", " ", "kot-ma-ale", false},
		{"short login", "al", "kot-ma-ale", false},
		{"empty password", "ala", "", false},
		{"short password", "ala", "short", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.login, tc.password)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}
