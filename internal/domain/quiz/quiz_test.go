package quiz

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func cards(pairs ...string) []domain.Card {
	var out []domain.Card
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Card{Prompt: pairs[i], Answer: pairs[i+1]})
	}
	return out
}

func TestDistractors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		correct      string
		pool         []string
		placeholders int
	}{
		{"large pool", "a", []string{"a", "b", "c", "d", "e", "f"}, 0},
		{"duplicates collapse", "a", []string{"a", "b", "b", "c", "c"}, 1},
		{"single card pool", "a", []string{"a"}, 3},
		{"empty pool", "a", nil, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Distractors(tc.correct, tc.pool, newRand(1))
			require.Len(t, got, DistractorCount)
			assert.NotContains(t, got, tc.correct)

			sampled := slices.DeleteFunc(slices.Clone(got), func(s string) bool { return s == Placeholder })
			assert.Len(t, got, len(sampled)+tc.placeholders)
			sorted := slices.Clone(sampled)
			slices.Sort(sorted)
			assert.Equal(t, len(sorted), len(slices.Compact(sorted)), "sampled without replacement")
		})
	}
}

func TestBuildQuestion(t *testing.T) {
	t.Parallel()
	cs := cards("one", "1", "two", "2", "three", "3", "four", "4", "five", "5")

	for seed := uint64(0); seed < 20; seed++ {
		q := BuildQuestion(cs, 2, []int{0, 1, 2, 3, 4}, newRand(seed))
		require.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, "3")
		assert.Equal(t, "3", q.CorrectAnswer)
		assert.Equal(t, "three", q.Prompt)
		assert.NotContains(t, q.Options, Placeholder)
	}
}

func TestBuildTest(t *testing.T) {
	t.Parallel()
	cs := cards("one", "1", " ", "x", "two", "2", "three", "3", "four", "")

	t.Run("all valid cards in order", func(t *testing.T) {
		qs, err := BuildTest(cs, AllCards, newRand(3))
		require.NoError(t, err)
		require.Len(t, qs, 3)
		assert.Equal(t, []int{0, 2, 3}, []int{qs[0].CardIndex, qs[1].CardIndex, qs[2].CardIndex})
		assert.Equal(t, 1, qs[0].Number)
		assert.Equal(t, 3, qs[2].Number)
		assert.Contains(t, qs[0].Options, Placeholder, "two alternatives pad one placeholder")
	})

	t.Run("count is clamped", func(t *testing.T) {
		qs, err := BuildTest(cs, 10, newRand(3))
		require.NoError(t, err)
		assert.Len(t, qs, 3)
	})

	t.Run("sample without repeats", func(t *testing.T) {
		qs, err := BuildTest(cs, 2, newRand(9))
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.NotEqual(t, qs[0].CardIndex, qs[1].CardIndex)
		for _, q := range qs {
			assert.Contains(t, []int{0, 2, 3}, q.CardIndex)
		}
	})

	t.Run("invalid count", func(t *testing.T) {
		_, err := BuildTest(cs, 0, newRand(1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("no valid cards", func(t *testing.T) {
		_, err := BuildTest(cards("q", " "), AllCards, newRand(1))
		assert.ErrorIs(t, err, domain.ErrNoCards)
	})

	t.Run("single card gets three placeholders", func(t *testing.T) {
		qs, err := BuildTest(cards("q", "a"), AllCards, newRand(1))
		require.NoError(t, err)
		require.Len(t, qs, 1)
		placeholders := 0
		for _, o := range qs[0].Options {
			if o == Placeholder {
				placeholders++
			}
		}
		assert.Equal(t, 3, placeholders)
	})
}

func TestGrade(t *testing.T) {
	t.Parallel()
	cs := cards("one", "1", "two", "2", "three", "3")

	summary, err := Grade(cs, []Answer{
		{CardIndex: 0, Answer: "1"},
		{CardIndex: 1, Answer: "3"},
		{CardIndex: 2, Answer: "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CorrectCount)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, 66.7, summary.Percent)
	assert.False(t, summary.Results[1].Correct)
	assert.Equal(t, "2", summary.Results[1].CorrectAnswer)

	_, err = Grade(cs, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Grade(cs, []Answer{{CardIndex: 3}})
	assert.ErrorIs(t, err, domain.ErrCardIndex)
}
