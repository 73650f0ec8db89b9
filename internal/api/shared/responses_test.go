package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/platform/logger"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithJSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithJSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, nil)
	assert.Empty(t, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()
	log, buf := logger.GetTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sets", nil)
	ctx := logger.WithLogger(SetTraceID(req.Context()), log)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	cause := errors.New("dial postgres://fiszki:hunter2@db:5432/fiszki: refused")
	RespondWithErrorAndLog(rec, req, http.StatusServiceUnavailable, "Storage is temporarily unavailable", cause)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Storage is temporarily unavailable", resp.Error)
	assert.Equal(t, GetTraceID(ctx), resp.TraceID)

	assert.NotContains(t, buf.String(), "hunter2")
	entries := buf.EntriesWithMessage(t, "API error response")
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), entries[0]["status_code"])
}

func TestRespondWithError_ClientErrorsLogAtDebug(t *testing.T) {
	t.Parallel()
	log, buf := logger.GetTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sets/x", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	RespondWithError(httptest.NewRecorder(), req, http.StatusNotFound, "Set not found")

	entries := buf.EntriesWithMessage(t, "API error response")
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
}
