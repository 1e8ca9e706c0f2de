package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubs-backend/internal/shared"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, http.StatusCreated, gin.H{"id": 1}) })

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]any{"id": float64(1)}, body.Data)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:   "not found",
			err:    shared.NewNotFound("author", uuid.Nil),
			status: http.StatusNotFound,
			code:   shared.ErrCodeNotFound,
		},
		{
			name:   "wrapped invalid argument",
			err:    fmt.Errorf("create: %w", shared.NewInvalidArgument("email", "required")),
			status: http.StatusBadRequest,
			code:   shared.ErrCodeInvalidArgument,
		},
		{
			name:   "conflict",
			err:    shared.NewConcurrencyConflict("sale", uuid.Nil, 3),
			status: http.StatusConflict,
			code:   shared.ErrCodeConcurrencyConflict,
		},
		{
			name:    "internal error hides message",
			err:     errors.New("connection refused"),
			status:  http.StatusInternalServerError,
			code:    shared.ErrCodeInternal,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(t, func(c *gin.Context) { FromError(c, tt.err) })

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error.Message)
			} else {
				assert.Equal(t, tt.err.Error(), body.Error.Message)
			}
		})
	}
}
