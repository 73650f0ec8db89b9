package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"abc","count":2}`, false},
		{"unknown field", `{"name":"abc","extra":1}`, true},
		{"trailing value", `{"name":"abc"}{"name":"def"}`, true},
		{"malformed", `{"name":`, true},
		{"empty body", ``, true},
		{"too large", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v sample
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sample{Name: "abc", Count: 2}, v)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sample{Name: "abc"}))
	assert.Error(t, ValidateRequest(&sample{}))
	assert.Error(t, ValidateRequest(&sample{Name: "toolong"}))
	assert.Error(t, ValidateRequest(&sample{Name: "abc", Count: -1}))
}
