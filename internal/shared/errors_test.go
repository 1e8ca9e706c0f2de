package shared

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_UnwrapsToKind(t *testing.T) {
	err := NewInvalidArgument("title", "title cannot be empty")

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "title")

	wrapped := fmt.Errorf("create book: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidArgument))
	assert.Equal(t, ErrCodeInvalidArgument, ToErrorCode(wrapped))
}

func TestCancelled_MatchesBothKinds(t *testing.T) {
	err := Cancelled(context.Canceled)

	assert.True(t, errors.Is(err, ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, CheckContext(ctx), ErrCancelled)
}

func TestTranslateContextError(t *testing.T) {
	backend := errors.New("connection reset")
	assert.Same(t, backend, TranslateContextError(backend))
	assert.Nil(t, TranslateContextError(nil))

	err := TranslateContextError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", NewInvalidArgument("x", "bad"), http.StatusBadRequest},
		{"invalid format", NewInvalidFormat("isbn", "bad"), http.StatusBadRequest},
		{"currency", NewCurrencyMismatch("USD", "EUR"), http.StatusBadRequest},
		{"not found", NewNotFound("author", 1), http.StatusNotFound},
		{"conflict", NewConcurrencyConflict("book", 1, 3), http.StatusConflict},
		{"state", NewInvalidState("no active transaction"), http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFromContext(context.Background()))
	assert.Equal(t, SystemActor, ActorFromContext(WithActor(context.Background(), "")))
	assert.Equal(t, "alice", ActorFromContext(WithActor(context.Background(), "alice")))
}
