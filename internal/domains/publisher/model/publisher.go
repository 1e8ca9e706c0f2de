package model

import (
	"strings"

	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
	"pubs-backend/internal/shared/valueobject"
)

// Publisher owns its books logically: books reference publisher_id and are
// persisted through the book repository, never cascaded from here.
type Publisher struct {
	entity.Base

	name    string
	address *valueobject.Address
	phone   *string
	email   *string
	website *string

	books []*bookModel.Book
}

func NewPublisher(name string, email, phone *string) (*Publisher, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewInvalidArgument("name", "publisher name cannot be empty")
	}

	return &Publisher{
		Base:  entity.NewBase(),
		name:  name,
		email: email,
		phone: phone,
	}, nil
}

func (p *Publisher) Name() string                  { return p.name }
func (p *Publisher) Address() *valueobject.Address { return p.address }
func (p *Publisher) Phone() *string                { return p.phone }
func (p *Publisher) Email() *string                { return p.email }
func (p *Publisher) Website() *string              { return p.website }
func (p *Publisher) Books() []*bookModel.Book      { return append([]*bookModel.Book(nil), p.books...) }

func (p *Publisher) UpdateContactInfo(email, phone, website *string) {
	p.email = email
	p.phone = phone
	p.website = website
	p.Touch()
}

func (p *Publisher) UpdateAddress(address *valueobject.Address) error {
	if address == nil {
		return shared.NewInvalidArgument("address", "address is required")
	}

	addr := *address
	p.address = &addr
	p.Touch()
	return nil
}

// AddBook attaches a book to the in-memory collection.
func (p *Publisher) AddBook(book *bookModel.Book) error {
	if book == nil {
		return shared.NewInvalidArgument("book", "book is required")
	}

	p.books = append(p.books, book)
	p.Touch()
	return nil
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type PublisherSnapshot struct {
	Base    entity.Snapshot
	Name    string
	Address *valueobject.Address
	Phone   *string
	Email   *string
	Website *string
}

func (p *Publisher) Snapshot() PublisherSnapshot {
	return PublisherSnapshot{
		Base:    p.Base.Snapshot(),
		Name:    p.name,
		Address: p.address,
		Phone:   p.phone,
		Email:   p.email,
		Website: p.website,
	}
}

func RestorePublisher(s PublisherSnapshot, books []*bookModel.Book) *Publisher {
	return &Publisher{
		Base:    entity.Restore(s.Base),
		name:    s.Name,
		address: s.Address,
		phone:   s.Phone,
		email:   s.Email,
		website: s.Website,
		books:   books,
	}
}
