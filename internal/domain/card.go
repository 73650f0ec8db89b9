package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card is a single prompt/answer flashcard. Cards are owned by exactly one CardSet.
type Card struct {
	Prompt     string         `json:"prompt"`
	Answer     string         `json:"answer"`
	Statistics CardStatistics `json:"statistics"`
}

// CardInput is the user-supplied content of a card.
type CardInput struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// SessionRecord summarises one completed learning run.
type SessionRecord struct {
	Date               Date      `json:"date"`
	Timestamp          time.Time `json:"timestamp"`
	UnderstoodCount    int       `json:"understoodCount"`
	NotUnderstoodCount int       `json:"notUnderstoodCount"`
}

// TestRecord summarises one completed multiple-choice test.
type TestRecord struct {
	Date         Date      `json:"date"`
	Timestamp    time.Time `json:"timestamp"`
	CorrectCount int       `json:"correctCount"`
	TotalCount   int       `json:"totalCount"`
	Percent      float64   `json:"percent"`
}

// CardSet is a named, owned collection of cards together with its study history
// and set-level review schedule.
type CardSet struct {
	ID                 string          `json:"id"`
	Owner              string          `json:"owner"`
	Name               string          `json:"name"`
	CreatedAt          time.Time       `json:"createdAt"`
	Cards              []Card          `json:"cards"`
	DaysCompleted      []Date          `json:"daysCompleted"`
	NextReviewDate     Date            `json:"nextReviewDate"`
	LearningHistory    []SessionRecord `json:"learningHistory"`
	TestHistory        []TestRecord    `json:"testHistory"`
	LastStudyTimestamp *time.Time      `json:"lastStudyTimestamp,omitempty"`
	LastResults        []*bool         `json:"lastResults,omitempty"`
}

// NewCardSet builds a validated set with fresh statistics on every card.
// Blank prompt/answer pairs are skipped.
func NewCardSet(owner, name string, inputs []CardInput, now time.Time) (*CardSet, error) {
	set := &CardSet{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Owner:     owner,
		Name:      strings.TrimSpace(name),
		CreatedAt: now.UTC(),
		Cards:     BuildCards(inputs, nil),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// BuildCards converts inputs into cards. When previous is given, a card keeps
// its statistics if the card at the same position had the same prompt.
func BuildCards(inputs []CardInput, previous []Card) []Card {
	cards := make([]Card, 0, len(inputs))
	for i, in := range inputs {
		prompt := strings.TrimSpace(in.Prompt)
		answer := strings.TrimSpace(in.Answer)
		if prompt == "" && answer == "" {
			continue
		}
		card := Card{Prompt: prompt, Answer: answer}
		if i < len(previous) && previous[i].Prompt == prompt {
			card.Statistics = previous[i].Statistics
		}
		cards = append(cards, card)
	}
	return cards
}

// Validate checks the caller-facing invariants of a set.
func (s *CardSet) Validate() error {
	if s.Owner == "" {
		return NewValidationError("owner", "is required", nil)
	}
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "is required", nil)
	}
	if len(s.Cards) == 0 {
		return NewValidationError("cards", "must contain at least one card", ErrNoCards)
	}
	return nil
}

// OwnedBy reports whether login owns the set.
func (s *CardSet) OwnedBy(login string) bool {
	return s.Owner == login
}

// NeverPracticed reports whether the set has no completed days and no learning runs.
func (s *CardSet) NeverPracticed() bool {
	return len(s.DaysCompleted) == 0 && len(s.LearningHistory) == 0
}

// HasCompleted reports whether d is one of the set's completed days.
func (s *CardSet) HasCompleted(d Date) bool {
	return slices.ContainsFunc(s.DaysCompleted, d.Equal)
}

// MarkCompleted adds d to DaysCompleted if absent.
func (s *CardSet) MarkCompleted(d Date) {
	if !s.HasCompleted(d) {
		s.DaysCompleted = append(s.DaysCompleted, d)
	}
}

// CompletedDayCount returns the number of distinct completed days.
func (s *CardSet) CompletedDayCount() int {
	seen := make(map[Date]struct{}, len(s.DaysCompleted))
	for _, d := range s.DaysCompleted {
		if !d.IsZero() {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}

// Normalize default-fills fields read from older or hand-edited payloads and
// restores the invariant that a set with no activity has no review date.
func (s *CardSet) Normalize() {
	s.DaysCompleted = slices.DeleteFunc(s.DaysCompleted, Date.IsZero)
	if s.NeverPracticed() {
		s.NextReviewDate = Date{}
	}
	for i := range s.Cards {
		s.Cards[i].Statistics.Normalize()
	}
}
