package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubs-backend/internal/domains/author"
	"pubs-backend/internal/domains/author/service"
	"pubs-backend/internal/infrastructure/persistence/persistencetest"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T) (*gin.Engine, *persistencetest.Factory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := persistencetest.NewFactory()
	h := NewAuthorHandler(service.NewAuthorService(f))

	r := gin.New()
	r.Use(middleware.Actor())
	authors := r.Group("/api/v1/authors")
	authors.POST("", h.Create)
	authors.GET("", h.List)
	authors.GET("/:id", h.GetByID)
	authors.PUT("/:id", h.Update)
	authors.DELETE("/:id", h.Delete)
	return r, f
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderActor, "editor")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func create(t *testing.T, r http.Handler, email string) author.AuthorResponse {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/authors", gin.H{
		"first_name": "Ann",
		"last_name":  "Lee",
		"email":      email,
		"street":     "1 Main St",
		"city":       "Springfield",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp author.AuthorResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func TestAuthorHandler_Create(t *testing.T) {
	r, f := newRouter(t)

	resp := create(t, r, "ann@example.com")
	assert.Equal(t, "Ann Lee", resp.FullName)
	require.NotNil(t, resp.Country)
	assert.Equal(t, "USA", *resp.Country)
	assert.Equal(t, int64(1), resp.Version)

	stored, err := f.New().Authors().GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedBy())
	assert.Equal(t, "editor", *stored.CreatedBy())
}

func TestAuthorHandler_CreateErrors(t *testing.T) {
	r, _ := newRouter(t)
	create(t, r, "ann@example.com")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed json", "not an object", http.StatusBadRequest, shared.ErrCodeInvalidArgument},
		{"missing names", gin.H{"email": "x@example.com"}, http.StatusBadRequest, shared.ErrCodeInvalidArgument},
		{
			"bad email",
			gin.H{"first_name": "A", "last_name": "B", "email": "nope"},
			http.StatusBadRequest, shared.ErrCodeInvalidArgument,
		},
		{
			"duplicate email",
			gin.H{"first_name": "A", "last_name": "B", "email": "ANN@example.com"},
			http.StatusBadRequest, shared.ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/authors", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestAuthorHandler_GetAndList(t *testing.T) {
	r, _ := newRouter(t)
	created := create(t, r, "ann@example.com")
	create(t, r, "bo@example.com")

	w, env := do(t, r, http.MethodGet, "/api/v1/authors/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one author.AuthorResponse
	require.NoError(t, json.Unmarshal(env.Data, &one))
	assert.Equal(t, created.ID, one.ID)

	w, env = do(t, r, http.MethodGet, "/api/v1/authors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []author.AuthorResponse
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)

	w, env = do(t, r, http.MethodGet, "/api/v1/authors?email=BO@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byEmail []author.AuthorResponse
	require.NoError(t, json.Unmarshal(env.Data, &byEmail))
	require.Len(t, byEmail, 1)
	assert.Equal(t, "bo@example.com", byEmail[0].Email)

	w, _ = do(t, r, http.MethodGet, "/api/v1/authors/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/authors/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorHandler_Update(t *testing.T) {
	r, _ := newRouter(t)
	created := create(t, r, "ann@example.com")
	path := "/api/v1/authors/" + created.ID.String()

	w, env := do(t, r, http.MethodPut, path, gin.H{
		"email":           "ann.lee@example.com",
		"contract_status": "active",
		"version":         created.Version,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated author.AuthorResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "ann.lee@example.com", updated.Email)
	assert.Equal(t, "active", updated.ContractStatus)
	assert.Equal(t, created.Version+1, updated.Version)

	// version cũ -> conflict
	w, env = do(t, r, http.MethodPut, path, gin.H{"email": "ann@example.com", "version": created.Version})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, shared.ErrCodeConcurrencyConflict, env.Error.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/authors/"+uuid.NewString(), gin.H{"email": "x@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorHandler_Delete(t *testing.T) {
	r, f := newRouter(t)
	created := create(t, r, "ann@example.com")
	path := "/api/v1/authors/" + created.ID.String()

	w, _ := do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	stored, err := f.New().Authors().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted())

	w, _ = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
