package service

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/domains/sale"
	"pubs-backend/internal/domains/sale/model"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	// PlaceSale creates the sale and bumps each book's year-to-date sales in
	// one explicit transaction. Any failure rolls everything back.
	// Errors: ErrInvalidArgument, ErrNotFound, ErrConcurrencyConflict
	PlaceSale(ctx context.Context, req *sale.PlaceSaleRequest) (*model.Sale, error)
	// UpdateStatus requires the version the caller last saw.
	UpdateStatus(ctx context.Context, id uuid.UUID, req *sale.UpdateSaleStatusRequest) (*model.Sale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// GetByStore returns the store's live sales with items, newest first.
	GetByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Sale, error)
}
