package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pubs-backend/internal/domains/publisher"
	"pubs-backend/internal/domains/publisher/model"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/request"
)

const entityName = "publisher"

// publisherService implements ServiceInterface
type publisherService struct {
	uow persistence.Factory
}

func NewPublisherService(uow persistence.Factory) ServiceInterface {
	return &publisherService{uow: uow}
}

func (s *publisherService) Create(ctx context.Context, req *publisher.CreatePublisherRequest) (*model.Publisher, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	p, err := model.NewPublisher(strings.TrimSpace(req.Name), request.NonBlank(req.Email), request.NonBlank(req.Phone))
	if err != nil {
		return nil, err
	}
	if website := request.NonBlank(req.Website); website != nil {
		p.UpdateContactInfo(p.Email(), p.Phone(), website)
	}
	if addr := req.Address(); addr != nil {
		if err := p.UpdateAddress(addr); err != nil {
			return nil, err
		}
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	if err := uow.Publishers().Add(ctx, p); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	log.Info().Str("publisher_id", p.ID().String()).Str("name", p.Name()).Msg("publisher created")
	return p, nil
}

func (s *publisherService) GetByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	p, err := uow.Publishers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, shared.NewNotFound(entityName, id)
	}
	return p, nil
}

func (s *publisherService) GetAll(ctx context.Context) ([]*model.Publisher, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	return uow.Publishers().GetPublishersWithBooks(ctx)
}
