package api

import (
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/quiz"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a bearer token.
type AuthResponse struct {
	Login     string    `json:"login"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CardRequest is one card in a set request.
type CardRequest struct {
	Prompt string `json:"prompt" validate:"max=2000"`
	Answer string `json:"answer" validate:"max=2000"`
}

// SetRequest is the body for creating or replacing a set.
type SetRequest struct {
	Name  string        `json:"name" validate:"required,max=200"`
	Cards []CardRequest `json:"cards" validate:"required,min=1,max=2000,dive"`
}

func (r SetRequest) inputs() []domain.CardInput {
	out := make([]domain.CardInput, 0, len(r.Cards))
	for _, c := range r.Cards {
		out = append(out, domain.CardInput{Prompt: c.Prompt, Answer: c.Answer})
	}
	return out
}

// StartRunRequest is the body of POST /api/sets/{id}/runs.
type StartRunRequest struct {
	Mode string `json:"mode" validate:"required,oneof=random review"`
}

// AnswerRequest is the body of POST /api/sets/{id}/runs/answers.
type AnswerRequest struct {
	CardIndex  *int  `json:"cardIndex" validate:"required,gte=0"`
	Understood *bool `json:"understood" validate:"required"`
}

// CompleteRunRequest sends a finished run back. Results[i] is the answer for
// the card at Order[i]; null marks a card that was not reached.
type CompleteRunRequest struct {
	Order   []int   `json:"order" validate:"required,min=1,dive,gte=0"`
	Results []*bool `json:"results" validate:"max=2000"`
}

// StartTestRequest is the body of POST /api/sets/{id}/tests. Count 0 uses
// the configured default and -1 asks about every card.
type StartTestRequest struct {
	Count int `json:"count" validate:"gte=-1,lte=2000"`
}

// TestResponse lists the questions of a started test.
type TestResponse struct {
	SetID     string          `json:"setId"`
	Questions []quiz.Question `json:"questions"`
}

// FinishTestRequest is the body of POST /api/sets/{id}/tests/complete.
type FinishTestRequest struct {
	Answers []quiz.Answer `json:"answers" validate:"required,min=1"`
}

// SetListResponse lists the caller's sets.
type SetListResponse struct {
	Sets []domain.CardSet `json:"sets"`
}
