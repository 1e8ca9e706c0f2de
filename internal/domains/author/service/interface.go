package service

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/domains/author"
	"pubs-backend/internal/domains/author/model"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	// Create validates the request and persists a new author. Address is set
	// only when street and city are both given; country defaults to USA.
	Create(ctx context.Context, req *author.CreateAuthorRequest) (*model.Author, error)
	// Update changes contact info, address, biography and contract status.
	// Errors: ErrNotFound, ErrConcurrencyConflict
	Update(ctx context.Context, req *author.UpdateAuthorRequest) (*model.Author, error)
	// Delete soft-deletes the author. Returns false when there is nothing to delete.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// GetAll returns live authors with their book links.
	GetAll(ctx context.Context) ([]*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetByEmail(ctx context.Context, email string) (*model.Author, error)
}
