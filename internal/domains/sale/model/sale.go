package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
)

// OrderStatus represents sale status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (os OrderStatus) String() string {
	return string(os)
}

// =====================================================
// AGGREGATE: Sale
// =====================================================
type Sale struct {
	entity.Base

	orderNumber string
	storeID     uuid.UUID
	orderDate   time.Time // set once in NewSale
	status      OrderStatus
	notes       *string

	items []*SaleItem
}

func NewSale(orderNumber string, storeID uuid.UUID) (*Sale, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewInvalidArgument("orderNumber", "order number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewInvalidArgument("storeId", "store is required")
	}

	base := entity.NewBase()
	return &Sale{
		Base:        base,
		orderNumber: orderNumber,
		storeID:     storeID,
		orderDate:   base.CreatedAt(),
		status:      OrderStatusPending,
	}, nil
}

func (s *Sale) OrderNumber() string  { return s.orderNumber }
func (s *Sale) StoreID() uuid.UUID   { return s.storeID }
func (s *Sale) OrderDate() time.Time { return s.orderDate }
func (s *Sale) Status() OrderStatus  { return s.status }
func (s *Sale) Notes() *string       { return s.notes }
func (s *Sale) Items() []*SaleItem   { return append([]*SaleItem(nil), s.items...) }

// AddItem snapshots the book's current price into a new line.
func (s *Sale) AddItem(book *bookModel.Book, quantity int, discount decimal.Decimal) (*SaleItem, error) {
	if book == nil {
		return nil, shared.NewInvalidArgument("book", "book is required")
	}

	item, err := NewSaleItem(s.ID(), book.ID(), quantity, book.Price().Amount(), discount)
	if err != nil {
		return nil, err
	}

	s.items = append(s.items, item)
	s.Touch()
	return item, nil
}

func (s *Sale) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewInvalidArgument("status", "unknown order status "+string(status))
	}

	s.status = status
	s.Touch()
	return nil
}

func (s *Sale) AddNotes(notes string) {
	s.notes = &notes
	s.Touch()
}

// TotalAmount is the sum of line totals, recomputed on every call.
func (s *Sale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type SaleSnapshot struct {
	Base        entity.Snapshot
	OrderNumber string
	StoreID     uuid.UUID
	OrderDate   time.Time
	Status      OrderStatus
	Notes       *string
}

func (s *Sale) Snapshot() SaleSnapshot {
	return SaleSnapshot{
		Base:        s.Base.Snapshot(),
		OrderNumber: s.orderNumber,
		StoreID:     s.storeID,
		OrderDate:   s.orderDate,
		Status:      s.status,
		Notes:       s.notes,
	}
}

func RestoreSale(snap SaleSnapshot, items []*SaleItem) *Sale {
	return &Sale{
		Base:        entity.Restore(snap.Base),
		orderNumber: snap.OrderNumber,
		storeID:     snap.StoreID,
		orderDate:   snap.OrderDate,
		status:      snap.Status,
		notes:       snap.Notes,
		items:       items,
	}
}
