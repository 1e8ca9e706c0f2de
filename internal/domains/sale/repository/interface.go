package repository

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/domains/sale/model"
	"pubs-backend/pkg/database"
)

// RepositoryInterface - Định nghĩa data access methods cho Sale
type RepositoryInterface interface {
	database.Repository[*model.Sale]

	// GetSalesWithItems returns live sales with their items, newest first.
	GetSalesWithItems(ctx context.Context) ([]*model.Sale, error)
	// GetSalesByStore returns the live sales of one store with their items, newest first.
	GetSalesByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Sale, error)
}
