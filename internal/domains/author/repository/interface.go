package repository

import (
	"context"

	"pubs-backend/internal/domains/author/model"
	"pubs-backend/pkg/database"
)

// RepositoryInterface defines data access operations for Author.
type RepositoryInterface interface {
	database.Repository[*model.Author]

	// GetAuthorsWithBooks returns live authors with their live book links.
	GetAuthorsWithBooks(ctx context.Context) ([]*model.Author, error)

	// GetByEmail is case-insensitive and skips soft-deleted authors.
	// Returns (nil, nil) when not found.
	GetByEmail(ctx context.Context, email string) (*model.Author, error)
}
