package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/quiz"
	"github.com/phrazzld/fiszki/internal/service"
)

// StudyService runs learning sessions.
type StudyService interface {
	StartRun(ctx context.Context, owner, setID string, mode service.RunMode) (*service.Run, error)
	SubmitAnswer(ctx context.Context, owner, setID string, cardIndex int, understood bool) (domain.CardStatistics, error)
	CompleteRun(ctx context.Context, owner, setID string, order []int, results []*bool) (*service.RunReport, error)
}

// QuizService runs multiple-choice tests.
type QuizService interface {
	StartTest(ctx context.Context, owner, setID string, count int) ([]quiz.Question, error)
	FinishTest(ctx context.Context, owner, setID string, answers []quiz.Answer) (*quiz.Summary, error)
}

// StudyHandler handles learning runs and tests.
type StudyHandler struct {
	study StudyService
	quiz  QuizService
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(study StudyService, quiz QuizService) *StudyHandler {
	return &StudyHandler{study: study, quiz: quiz}
}

// StartRun handles POST /api/sets/{id}/runs. A review run with nothing to
// review answers 204.
func (h *StudyHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req StartRunRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	run, err := h.study.StartRun(r.Context(), login, id, service.RunMode(req.Mode))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, run)
}

// SubmitAnswer handles POST /api/sets/{id}/runs/answers.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	stats, err := h.study.SubmitAnswer(r.Context(), login, id, *req.CardIndex, *req.Understood)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// CompleteRun handles POST /api/sets/{id}/runs/complete.
func (h *StudyHandler) CompleteRun(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req CompleteRunRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	report, err := h.study.CompleteRun(r.Context(), login, id, req.Order, req.Results)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// StartTest handles POST /api/sets/{id}/tests.
func (h *StudyHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req StartTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	questions, err := h.quiz.StartTest(r.Context(), login, id, req.Count)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TestResponse{SetID: id, Questions: questions})
}

// FinishTest handles POST /api/sets/{id}/tests/complete.
func (h *StudyHandler) FinishTest(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req FinishTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	summary, err := h.quiz.FinishTest(r.Context(), login, id, req.Answers)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
