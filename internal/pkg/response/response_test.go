package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadasys/parkovaci-app/internal/pkg/apperror"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	notFound := apperror.New(http.StatusNotFound, "reservation not found")

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"app error", notFound, http.StatusNotFound, "reservation not found"},
		{"wrapped app error", fmt.Errorf("cancel: %w", notFound.WithErr(errors.New("boom"))), http.StatusNotFound, "reservation not found"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("with binding error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		BadRequest(c, "invalid request body", errors.New("Key: 'place' Error:Field validation for 'place' failed on the 'required' tag"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid request body", body.Error)
		assert.Contains(t, body.Details, "'place'")
		assert.Len(t, c.Errors, 1)
	})

	t.Run("without details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		BadRequest(c, "invalid reservation id", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid reservation id"}`, w.Body.String())
		assert.Empty(t, c.Errors)
	})
}

func TestNewListResponse_NilIsEmpty(t *testing.T) {
	b, err := json.Marshal(NewListResponse[int](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(b))
}
