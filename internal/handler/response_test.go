package handler

import (
	"ClipHub/internal/apperr"
	"ClipHub/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindBadRequest:         http.StatusBadRequest,
		apperr.KindUnauthorized:       http.StatusUnauthorized,
		apperr.KindForbidden:          http.StatusUnauthorized,
		apperr.KindNotFound:           http.StatusNotFound,
		apperr.KindConflict:           http.StatusBadRequest,
		apperr.KindInvalidCredentials: http.StatusBadRequest,
		apperr.KindUpstream:           http.StatusInternalServerError,
		apperr.KindInternal:           http.StatusInternalServerError,
		apperr.Kind(99):               http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind.String())
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"app error", apperr.NotFound("Playlist not found"), http.StatusNotFound, "Playlist not found"},
		{"wrapped app error", fmt.Errorf("load: %w", apperr.Forbidden("Not authorized")), http.StatusUnauthorized, "Not authorized"},
		{"upstream hides cause", apperr.Upstream("Error searching videos", errors.New("quota")), http.StatusInternalServerError, "Error searching videos"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, logger.Log.WithField("case", tc.name), tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body.Message)
		})
	}
}
