package repository

import (
	"context"

	"pubs-backend/internal/domains/store/model"
	"pubs-backend/pkg/database"
)

// RepositoryInterface defines data access operations for Store.
type RepositoryInterface interface {
	database.Repository[*model.Store]

	// GetStoresWithSales returns live stores with their live sales and items.
	GetStoresWithSales(ctx context.Context) ([]*model.Store, error)
}
