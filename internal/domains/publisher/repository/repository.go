package repository

import (
	"context"

	"pubs-backend/internal/domains/publisher/model"
	"pubs-backend/pkg/database"
)

// RepositoryInterface defines all data access operations for Publisher domain
type RepositoryInterface interface {
	database.Repository[*model.Publisher]

	// GetPublishersWithBooks returns live publishers with their live books
	// (books come with their author links).
	GetPublishersWithBooks(ctx context.Context) ([]*model.Publisher, error)
}
