// Package quiz builds multiple-choice tests from a set's cards and grades them.
package quiz

import (
	"math/rand/v2"
	"strings"

	"github.com/phrazzld/fiszki/internal/domain"
)

const (
	// Placeholder pads the options when the pool has too few distinct answers.
	Placeholder = "—"

	// DistractorCount is the number of wrong options per question.
	DistractorCount = 3

	// AllCards requests a test over every valid card.
	AllCards = -1
)

// Question is one multiple-choice question. CorrectAnswer stays server-side.
type Question struct {
	Number        int      `json:"number"`
	CardIndex     int      `json:"cardIndex"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"`
}

// Answer is the option a user picked for a card.
type Answer struct {
	CardIndex int    `json:"cardIndex"`
	Answer    string `json:"answer"`
}

// Result is one graded answer.
type Result struct {
	CardIndex     int    `json:"cardIndex"`
	Prompt        string `json:"prompt"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Correct       bool   `json:"correct"`
}

// Summary is the outcome of a graded test.
type Summary struct {
	Results      []Result `json:"results"`
	CorrectCount int      `json:"correctCount"`
	TotalCount   int      `json:"totalCount"`
	Percent      float64  `json:"percent"`
}

// Distractors samples up to DistractorCount distinct wrong answers from pool
// without replacement, padding with Placeholder when the pool runs short.
func Distractors(correct string, pool []string, rng *rand.Rand) []string {
	seen := map[string]bool{correct: true}
	var candidates []string
	for _, a := range pool {
		if !seen[a] {
			seen[a] = true
			candidates = append(candidates, a)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	out := make([]string, 0, DistractorCount)
	for i := 0; i < DistractorCount; i++ {
		if i < len(candidates) {
			out = append(out, candidates[i])
		} else {
			out = append(out, Placeholder)
		}
	}
	return out
}

// ValidIndices returns the indices of cards with a non-blank prompt and answer.
func ValidIndices(cards []domain.Card) []int {
	var idx []int
	for i, c := range cards {
		if strings.TrimSpace(c.Prompt) != "" && strings.TrimSpace(c.Answer) != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// BuildQuestion builds a shuffled four-option question for cards[index],
// drawing distractors from the answers of the cards at pool indices.
func BuildQuestion(cards []domain.Card, index int, pool []int, rng *rand.Rand) Question {
	answers := make([]string, 0, len(pool))
	for _, i := range pool {
		answers = append(answers, cards[i].Answer)
	}

	correct := cards[index].Answer
	options := append([]string{correct}, Distractors(correct, answers, rng)...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		CardIndex:     index,
		Prompt:        cards[index].Prompt,
		Options:       options,
		CorrectAnswer: correct,
	}
}

// BuildTest samples count valid cards (AllCards for every one, clamped to the
// pool) and builds a question for each. Sampling the whole pool keeps card order.
func BuildTest(cards []domain.Card, count int, rng *rand.Rand) ([]Question, error) {
	valid := ValidIndices(cards)
	if len(valid) == 0 {
		return nil, domain.NewValidationError("cards", "have no complete prompt and answer pairs", domain.ErrNoCards)
	}
	if count == 0 || count < AllCards {
		return nil, domain.NewValidationError("count", "must be positive or -1", nil)
	}
	if count == AllCards || count > len(valid) {
		count = len(valid)
	}

	chosen := valid
	if count < len(valid) {
		perm := rng.Perm(len(valid))[:count]
		chosen = make([]int, count)
		for i, p := range perm {
			chosen[i] = valid[p]
		}
	}

	questions := make([]Question, 0, count)
	for n, idx := range chosen {
		q := BuildQuestion(cards, idx, valid, rng)
		q.Number = n + 1
		questions = append(questions, q)
	}
	return questions, nil
}

// Grade checks answers against the current card answers.
func Grade(cards []domain.Card, answers []Answer) (Summary, error) {
	if len(answers) == 0 {
		return Summary{}, domain.NewValidationError("answers", "must not be empty", nil)
	}

	summary := Summary{Results: make([]Result, 0, len(answers))}
	for _, a := range answers {
		if a.CardIndex < 0 || a.CardIndex >= len(cards) {
			return Summary{}, domain.ErrCardIndex
		}
		card := cards[a.CardIndex]
		ok := a.Answer == card.Answer
		if ok {
			summary.CorrectCount++
		}
		summary.Results = append(summary.Results, Result{
			CardIndex:     a.CardIndex,
			Prompt:        card.Prompt,
			CorrectAnswer: card.Answer,
			UserAnswer:    a.Answer,
			Correct:       ok,
		})
	}
	summary.TotalCount = len(answers)
	summary.Percent = domain.ComputeSuccessPercent(summary.CorrectCount, summary.TotalCount)
	return summary, nil
}
