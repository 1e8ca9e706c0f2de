package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
)

var hundred = decimal.NewFromInt(100)

// SaleItem là một dòng của Sale. UnitPrice là snapshot giá sách tại thời điểm
// thêm vào, không đổi theo giá sách sau này.
type SaleItem struct {
	entity.Base

	saleID    uuid.UUID
	bookID    uuid.UUID
	quantity  int
	unitPrice decimal.Decimal
	discount  decimal.Decimal // percent, 0..100
}

func NewSaleItem(saleID, bookID uuid.UUID, quantity int, unitPrice, discount decimal.Decimal) (*SaleItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewInvalidArgument("unitPrice", "unit price cannot be negative")
	}
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}

	return &SaleItem{
		Base:      entity.NewBase(),
		saleID:    saleID,
		bookID:    bookID,
		quantity:  quantity,
		unitPrice: unitPrice,
		discount:  discount,
	}, nil
}

func (si *SaleItem) SaleID() uuid.UUID          { return si.saleID }
func (si *SaleItem) BookID() uuid.UUID          { return si.bookID }
func (si *SaleItem) Quantity() int              { return si.quantity }
func (si *SaleItem) UnitPrice() decimal.Decimal { return si.unitPrice }
func (si *SaleItem) Discount() decimal.Decimal  { return si.discount }

// LineTotal = quantity * unitPrice * (1 - discount/100), computed on every call.
func (si *SaleItem) LineTotal() decimal.Decimal {
	subtotal := si.unitPrice.Mul(decimal.NewFromInt(int64(si.quantity)))
	discountAmount := subtotal.Mul(si.discount).Div(hundred)
	return subtotal.Sub(discountAmount)
}

func (si *SaleItem) UpdateQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	si.quantity = quantity
	si.Touch()
	return nil
}

func (si *SaleItem) UpdateDiscount(discount decimal.Decimal) error {
	if err := validateDiscount(discount); err != nil {
		return err
	}

	si.discount = discount
	si.Touch()
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewInvalidArgument("quantity", "quantity must be positive")
	}
	return nil
}

func validateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return shared.NewInvalidArgument("discount", "discount must be between 0 and 100")
	}
	return nil
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type SaleItemSnapshot struct {
	Base      entity.Snapshot
	SaleID    uuid.UUID
	BookID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

func (si *SaleItem) Snapshot() SaleItemSnapshot {
	return SaleItemSnapshot{
		Base:      si.Base.Snapshot(),
		SaleID:    si.saleID,
		BookID:    si.bookID,
		Quantity:  si.quantity,
		UnitPrice: si.unitPrice,
		Discount:  si.discount,
	}
}

func RestoreSaleItem(s SaleItemSnapshot) *SaleItem {
	return &SaleItem{
		Base:      entity.Restore(s.Base),
		saleID:    s.SaleID,
		bookID:    s.BookID,
		quantity:  s.Quantity,
		unitPrice: s.UnitPrice,
		discount:  s.Discount,
	}
}
