package service

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pubs-backend/internal/domains/author"
	"pubs-backend/internal/domains/author/model"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/request"
)

const entityName = "author"

// authorService mở một Unit of Work cho mỗi use case.
type authorService struct {
	uow persistence.Factory
}

func NewAuthorService(uow persistence.Factory) ServiceInterface {
	return &authorService{uow: uow}
}

// =====================================================
// COMMANDS
// =====================================================

func (s *authorService) Create(ctx context.Context, req *author.CreateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	a, err := model.NewAuthor(
		strings.TrimSpace(req.FirstName),
		strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Email),
		request.NonBlank(req.Phone),
	)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(a, req.AddressFields, req.Biography); err != nil {
		return nil, err
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	existing, err := uow.Authors().GetByEmail(ctx, a.Email())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewInvalidArgument("email", "email is already used by another author")
	}

	if err := uow.Authors().Add(ctx, a); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	log.Info().
		Str("author_id", a.ID().String()).
		Str("actor", shared.ActorFromContext(ctx)).
		Msg("author created")
	return a, nil
}

func (s *authorService) Update(ctx context.Context, req *author.UpdateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	a, err := uow.Authors().GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.IsDeleted() {
		return nil, shared.NewNotFound(entityName, req.ID)
	}
	if req.Version != nil && *req.Version != a.Version() {
		return nil, shared.NewConcurrencyConflict(entityName, req.ID, *req.Version)
	}

	if err := a.UpdateContactInfo(strings.TrimSpace(req.Email), request.NonBlank(req.Phone)); err != nil {
		return nil, err
	}
	if err := applyProfile(a, req.AddressFields, req.Biography); err != nil {
		return nil, err
	}
	if req.ContractStatus != nil {
		if err := a.UpdateContractStatus(model.ContractStatus(*req.ContractStatus)); err != nil {
			return nil, err
		}
	}

	if err := uow.Authors().Update(ctx, a); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	log.Info().Str("author_id", a.ID().String()).Int64("version", a.Version()).Msg("author updated")
	return a, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	a, err := uow.Authors().GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if a == nil || a.IsDeleted() {
		return false, nil
	}

	if err := uow.Authors().Delete(ctx, a); err != nil {
		return false, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return false, fmt.Errorf("failed to delete author: %w", err)
	}

	log.Info().
		Str("author_id", id.String()).
		Str("actor", shared.ActorFromContext(ctx)).
		Msg("author soft-deleted")
	return true, nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *authorService) GetAll(ctx context.Context) ([]*model.Author, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	return uow.Authors().GetAuthorsWithBooks(ctx)
}

// GetByID - author đã bị xoá mềm được coi như không tồn tại
func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if id == uuid.Nil {
		return nil, shared.NewNotFound(entityName, id)
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	a, err := uow.Authors().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.IsDeleted() {
		return nil, shared.NewNotFound(entityName, id)
	}
	return a, nil
}

func (s *authorService) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, shared.NewInvalidFormat("email", err.Error())
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	a, err := uow.Authors().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewNotFound(entityName, email)
	}
	return a, nil
}

// =====================================================
// HELPERS
// =====================================================

// applyProfile sets the address (street and city required, country defaults
// to USA) and a non-blank biography. Missing values leave the author as is.
func applyProfile(a *model.Author, f author.AddressFields, biography *string) error {
	if addr := f.Address(); addr != nil {
		if err := a.UpdateAddress(addr); err != nil {
			return err
		}
	}
	if !request.IsBlank(biography) {
		a.UpdateBiography(strings.TrimSpace(*biography))
	}
	return nil
}
