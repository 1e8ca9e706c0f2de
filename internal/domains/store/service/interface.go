package service

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/domains/store"
	"pubs-backend/internal/domains/store/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *store.CreateStoreRequest) (*model.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	// GetAll returns live stores ordered by name, without their sales.
	GetAll(ctx context.Context) ([]*model.Store, error)
}
