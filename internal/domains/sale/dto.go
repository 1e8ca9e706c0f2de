package sale

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/domains/sale/model"
)

const (
	MaxOrderNumberLength = 50
	MaxNotesLength       = 1000
	MaxItemsPerSale      = 100
)

var hundred = decimal.NewFromInt(100)

// ========================================
// REQUESTS
// ========================================

// PlaceSaleRequest - POST /api/v1/sales
type PlaceSaleRequest struct {
	OrderNumber string            `json:"order_number" binding:"required"`
	StoreID     uuid.UUID         `json:"store_id" binding:"required"`
	Notes       *string           `json:"notes,omitempty"`
	Items       []SaleItemRequest `json:"items" binding:"required"`
}

// SaleItemRequest - one line of PlaceSaleRequest
type SaleItemRequest struct {
	BookID   uuid.UUID       `json:"book_id"`
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

func (r PlaceSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderNumber,
			validation.Required.Error("order number is required"),
			validation.Length(1, MaxOrderNumberLength),
		),
		validation.Field(&r.StoreID, validation.By(requiredUUID("store id is required"))),
		validation.Field(&r.Notes, validation.Length(0, MaxNotesLength)),
		validation.Field(&r.Items,
			validation.Required.Error("at least one item is required"),
			validation.Length(1, MaxItemsPerSale),
		),
	)
}

func (r SaleItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(requiredUUID("book id is required"))),
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity must be at least 1"),
			validation.Min(1).Error("quantity must be at least 1"),
		),
		validation.Field(&r.Discount, validation.By(percentage)),
	)
}

// UpdateSaleStatusRequest - PATCH /api/v1/sales/:id/status
type UpdateSaleStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version int64  `json:"version" binding:"required"`
}

func (r UpdateSaleStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required,
			validation.In(
				string(model.OrderStatusPending),
				string(model.OrderStatusConfirmed),
				string(model.OrderStatusShipped),
				string(model.OrderStatusDelivered),
				string(model.OrderStatusCancelled),
			).Error("unknown order status"),
		),
		validation.Field(&r.Version, validation.Required, validation.Min(int64(1))),
	)
}

func requiredUUID(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		if id, _ := value.(uuid.UUID); id == uuid.Nil {
			return errors.New(msg)
		}
		return nil
	}
}

func percentage(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errors.New("discount must be between 0 and 100")
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

// SaleResponse - JSON shape of a sale
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"`
	OrderNumber string             `json:"order_number"`
	StoreID     uuid.UUID          `json:"store_id"`
	OrderDate   time.Time          `json:"order_date"`
	Status      string             `json:"status"`
	Notes       *string            `json:"notes,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Version     int64              `json:"version"`
	Items       []SaleItemResponse `json:"items"`
}

type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	BookID    uuid.UUID       `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func ToSaleResponse(s *model.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:          s.ID(),
		OrderNumber: s.OrderNumber(),
		StoreID:     s.StoreID(),
		OrderDate:   s.OrderDate(),
		Status:      s.Status().String(),
		Notes:       s.Notes(),
		TotalAmount: s.TotalAmount(),
		Version:     s.Version(),
		Items:       make([]SaleItemResponse, 0, len(s.Items())),
	}
	for _, item := range s.Items() {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:        item.ID(),
			BookID:    item.BookID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Discount:  item.Discount(),
			LineTotal: item.LineTotal(),
		})
	}
	return resp
}

func ToSaleResponses(sales []*model.Sale) []*SaleResponse {
	out := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = ToSaleResponse(s)
	}
	return out
}
