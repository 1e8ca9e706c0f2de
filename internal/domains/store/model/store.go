package model

import (
	"strings"

	saleModel "pubs-backend/internal/domains/sale/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
	"pubs-backend/internal/shared/valueobject"
)

// Store là nhà sách bán lẻ, nơi phát sinh Sale.
type Store struct {
	entity.Base

	name    string
	address *valueobject.Address
	phone   *string
	email   *string

	sales []*saleModel.Sale
}

func NewStore(name string, phone, email *string) (*Store, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewInvalidArgument("name", "store name cannot be empty")
	}

	return &Store{
		Base:  entity.NewBase(),
		name:  name,
		phone: phone,
		email: email,
	}, nil
}

func (s *Store) Name() string                  { return s.name }
func (s *Store) Address() *valueobject.Address { return s.address }
func (s *Store) Phone() *string                { return s.phone }
func (s *Store) Email() *string                { return s.email }
func (s *Store) Sales() []*saleModel.Sale      { return append([]*saleModel.Sale(nil), s.sales...) }

func (s *Store) UpdateContactInfo(phone, email *string) {
	s.phone = phone
	s.email = email
	s.Touch()
}

func (s *Store) UpdateAddress(address *valueobject.Address) error {
	if address == nil {
		return shared.NewInvalidArgument("address", "address is required")
	}

	addr := *address
	s.address = &addr
	s.Touch()
	return nil
}

// AddSale attaches a sale placed at this store.
func (s *Store) AddSale(sale *saleModel.Sale) error {
	if sale == nil {
		return shared.NewInvalidArgument("sale", "sale is required")
	}
	if sale.StoreID() != s.ID() {
		return shared.NewInvalidArgument("sale", "sale belongs to another store")
	}

	s.sales = append(s.sales, sale)
	s.Touch()
	return nil
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type StoreSnapshot struct {
	Base    entity.Snapshot
	Name    string
	Address *valueobject.Address
	Phone   *string
	Email   *string
}

func (s *Store) Snapshot() StoreSnapshot {
	return StoreSnapshot{
		Base:    s.Base.Snapshot(),
		Name:    s.name,
		Address: s.address,
		Phone:   s.phone,
		Email:   s.email,
	}
}

func RestoreStore(snap StoreSnapshot, sales []*saleModel.Sale) *Store {
	return &Store{
		Base:    entity.Restore(snap.Base),
		name:    snap.Name,
		address: snap.Address,
		phone:   snap.Phone,
		email:   snap.Email,
		sales:   sales,
	}
}
