package service

import (
	"context"

	"github.com/google/uuid"

	"pubs-backend/internal/domains/publisher"
	"pubs-backend/internal/domains/publisher/model"
)

// ServiceInterface defines business operations for the Publisher domain
type ServiceInterface interface {
	Create(ctx context.Context, req *publisher.CreatePublisherRequest) (*model.Publisher, error)
	// GetByID trả về publisher (không kèm books); đã xoá mềm coi như NotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error)
	// GetAll returns live publishers with their live books.
	GetAll(ctx context.Context) ([]*model.Publisher, error)
}
