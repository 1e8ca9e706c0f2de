package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/domains/sale"
	"pubs-backend/internal/domains/sale/model"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
)

const entityName = "sale"

type saleService struct {
	uow persistence.Factory
}

func NewSaleService(uow persistence.Factory) ServiceInterface {
	return &saleService{uow: uow}
}

// =====================================================
// PLACE SALE
// =====================================================

func (s *saleService) PlaceSale(ctx context.Context, req *sale.PlaceSaleRequest) (placed *model.Sale, err error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	if err := uow.BeginTransaction(ctx); err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := uow.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			log.Error().Err(rbErr).Str("order_number", req.OrderNumber).Msg("failed to rollback sale")
		}
		log.Warn().Err(err).Str("order_number", req.OrderNumber).Msg("sale rolled back")
	}()

	store, err := uow.Stores().GetByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.IsDeleted() {
		return nil, shared.NewNotFound("store", req.StoreID)
	}

	placed, err = model.NewSale(strings.TrimSpace(req.OrderNumber), store.ID())
	if err != nil {
		return nil, err
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		placed.AddNotes(strings.TrimSpace(*req.Notes))
	}

	// Cùng một sách có thể xuất hiện nhiều dòng, giữ một instance để cộng dồn.
	books := make(map[uuid.UUID]*bookModel.Book, len(req.Items))
	for _, line := range req.Items {
		b, ok := books[line.BookID]
		if !ok {
			if b, err = uow.Books().GetByID(ctx, line.BookID); err != nil {
				return nil, err
			}
			if b == nil || b.IsDeleted() {
				return nil, shared.NewNotFound("book", line.BookID)
			}
			books[line.BookID] = b
		}

		if _, err = placed.AddItem(b, line.Quantity, line.Discount); err != nil {
			return nil, err
		}
		if err = b.RecordSale(line.Quantity); err != nil {
			return nil, err
		}
		if err = uow.Books().Update(ctx, b); err != nil {
			return nil, err
		}
	}

	if err = uow.Sales().Add(ctx, placed); err != nil {
		return nil, err
	}
	if _, err = uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}
	// Commit kết thúc transaction dù thành công hay không.
	err = uow.Commit(ctx)
	committed = true
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_number", placed.OrderNumber()).
		Str("store_id", store.ID().String()).
		Int("items", len(placed.Items())).
		Str("total", placed.TotalAmount().StringFixed(2)).
		Msg("sale placed")
	return placed, nil
}

// =====================================================
// STATUS
// =====================================================

func (s *saleService) UpdateStatus(ctx context.Context, id uuid.UUID, req *sale.UpdateSaleStatusRequest) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	sl, err := uow.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl == nil || sl.IsDeleted() {
		return nil, shared.NewNotFound(entityName, id)
	}
	if sl.Version() != req.Version {
		return nil, shared.NewConcurrencyConflict(entityName, id, req.Version)
	}

	if err := sl.UpdateStatus(model.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := uow.Sales().Update(ctx, sl); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	log.Info().Str("sale_id", id.String()).Str("status", req.Status).Msg("sale status updated")
	return sl, nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	sl, err := uow.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sl == nil || sl.IsDeleted() {
		return nil, shared.NewNotFound(entityName, id)
	}
	return sl, nil
}

func (s *saleService) GetByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Sale, error) {
	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	store, err := uow.Stores().GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.IsDeleted() {
		return nil, shared.NewNotFound("store", storeID)
	}

	return uow.Sales().GetSalesByStore(ctx, storeID)
}
