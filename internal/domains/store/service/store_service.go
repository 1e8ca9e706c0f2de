package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pubs-backend/internal/domains/store"
	"pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/request"
)

const entityName = "store"

type storeService struct {
	uow persistence.Factory
}

func NewStoreService(uow persistence.Factory) ServiceInterface {
	return &storeService{uow: uow}
}

func (s *storeService) Create(ctx context.Context, req *store.CreateStoreRequest) (*model.Store, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	st, err := model.NewStore(strings.TrimSpace(req.Name), request.NonBlank(req.Phone), request.NonBlank(req.Email))
	if err != nil {
		return nil, err
	}
	if addr := req.Address(); addr != nil {
		if err := st.UpdateAddress(addr); err != nil {
			return nil, err
		}
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	if err := uow.Stores().Add(ctx, st); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	log.Info().Str("store_id", st.ID().String()).Str("name", st.Name()).Msg("store created")
	return st, nil
}

func (s *storeService) GetByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	st, err := uow.Stores().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil || st.IsDeleted() {
		return nil, shared.NewNotFound(entityName, id)
	}
	return st, nil
}

func (s *storeService) GetAll(ctx context.Context) ([]*model.Store, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	return uow.Stores().GetAll(ctx)
}
