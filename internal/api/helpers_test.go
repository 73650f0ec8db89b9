package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/api/middleware"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/srs"
	"github.com/phrazzld/fiszki/internal/mocks"
	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/platform/memblob"
	"github.com/phrazzld/fiszki/internal/service"
	"github.com/phrazzld/fiszki/internal/service/auth"
	"github.com/phrazzld/fiszki/internal/store"
)

var fixedNow = time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC)

// Bearer tokens accepted by the test router.
const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

// testAPI is a router over real services backed by an in-memory blob.
type testAPI struct {
	router http.Handler
	sets   *service.SetService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	vs := store.NewVersionedStore(memblob.New(), store.Options{MaxRetries: 3, BackoffBase: time.Millisecond}, log)
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	clock := func() time.Time { return fixedNow }
	sets := service.NewSetService(store.NewCollection[domain.CardSet](vs, "sets.json", "sets"), scheduler, clock, log)
	random := service.NewRandom(rand.New(rand.NewPCG(7, 11)))

	setHandler := NewSetHandler(sets, service.NewDashboardService(sets))
	studyHandler := NewStudyHandler(service.NewStudyService(sets, random), service.NewQuizService(sets, random, 2))

	jwtService := &mocks.MockJWTService{ValidateTokenFn: validateTestTokens}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(jwtService).Authenticate)
		r.Get("/api/dashboard", setHandler.Dashboard)
		r.Get("/api/profile", setHandler.Profile)
		r.Route("/api/sets", func(r chi.Router) {
			r.Get("/", setHandler.List)
			r.Post("/", setHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", setHandler.Get)
				r.Put("/", setHandler.Update)
				r.Delete("/", setHandler.Delete)
				r.Post("/runs", studyHandler.StartRun)
				r.Post("/runs/answers", studyHandler.SubmitAnswer)
				r.Post("/runs/complete", studyHandler.CompleteRun)
				r.Post("/tests", studyHandler.StartTest)
				r.Post("/tests/complete", studyHandler.FinishTest)
			})
		})
	})
	return &testAPI{router: r, sets: sets}
}

func validateTestTokens(_ context.Context, token string) (*auth.Claims, error) {
	switch token {
	case aliceToken:
		return &auth.Claims{Login: "alice"}, nil
	case bobToken:
		return &auth.Claims{Login: "bob"}, nil
	default:
		return nil, auth.ErrInvalidToken
	}
}

// do sends a request with an optional JSON body and bearer token.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// createSet creates a set for the token owner through the API.
func (a *testAPI) createSet(t *testing.T, token, name string, pairs ...string) domain.CardSet {
	t.Helper()
	req := SetRequest{Name: name}
	for i := 0; i+1 < len(pairs); i += 2 {
		req.Cards = append(req.Cards, CardRequest{Prompt: pairs[i], Answer: pairs[i+1]})
	}
	rec := a.do(t, http.MethodPost, "/api/sets", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[domain.CardSet](t, rec)
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}
