package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
)

var hundred = decimal.NewFromInt(100)

// BookAuthor là bảng nối many-to-many giữa Book và Author.
// AuthorOrder bắt đầu từ 1, RoyaltyPercentage nằm trong [0, 100].
type BookAuthor struct {
	entity.Base

	bookID            uuid.UUID
	authorID          uuid.UUID
	authorOrder       int
	royaltyPercentage decimal.Decimal
}

// NewBookAuthor is the single constructor for links, used from both
// Book.AddAuthor and Author.AddBook.
func NewBookAuthor(bookID, authorID uuid.UUID, authorOrder int, royaltyPercentage decimal.Decimal) (*BookAuthor, error) {
	if bookID == uuid.Nil {
		return nil, shared.NewInvalidArgument("bookId", "book is required")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewInvalidArgument("authorId", "author is required")
	}
	if err := validateAuthorOrder(authorOrder); err != nil {
		return nil, err
	}
	if err := validateRoyalty(royaltyPercentage); err != nil {
		return nil, err
	}

	return &BookAuthor{
		Base:              entity.NewBase(),
		bookID:            bookID,
		authorID:          authorID,
		authorOrder:       authorOrder,
		royaltyPercentage: royaltyPercentage,
	}, nil
}

func (ba *BookAuthor) BookID() uuid.UUID                  { return ba.bookID }
func (ba *BookAuthor) AuthorID() uuid.UUID                { return ba.authorID }
func (ba *BookAuthor) AuthorOrder() int                   { return ba.authorOrder }
func (ba *BookAuthor) RoyaltyPercentage() decimal.Decimal { return ba.royaltyPercentage }

func (ba *BookAuthor) UpdateRoyaltyPercentage(percentage decimal.Decimal) error {
	if err := validateRoyalty(percentage); err != nil {
		return err
	}

	ba.royaltyPercentage = percentage
	ba.Touch()
	return nil
}

func (ba *BookAuthor) UpdateAuthorOrder(order int) error {
	if err := validateAuthorOrder(order); err != nil {
		return err
	}

	ba.authorOrder = order
	ba.Touch()
	return nil
}

func validateRoyalty(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return shared.NewInvalidArgument("royaltyPercentage", "royalty percentage must be between 0 and 100")
	}
	return nil
}

func validateAuthorOrder(order int) error {
	if order < 1 {
		return shared.NewInvalidArgument("authorOrder", "author order starts at 1")
	}
	return nil
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type BookAuthorSnapshot struct {
	Base              entity.Snapshot
	BookID            uuid.UUID
	AuthorID          uuid.UUID
	AuthorOrder       int
	RoyaltyPercentage decimal.Decimal
}

func (ba *BookAuthor) Snapshot() BookAuthorSnapshot {
	return BookAuthorSnapshot{
		Base:              ba.Base.Snapshot(),
		BookID:            ba.bookID,
		AuthorID:          ba.authorID,
		AuthorOrder:       ba.authorOrder,
		RoyaltyPercentage: ba.royaltyPercentage,
	}
}

func RestoreBookAuthor(s BookAuthorSnapshot) *BookAuthor {
	return &BookAuthor{
		Base:              entity.Restore(s.Base),
		bookID:            s.BookID,
		authorID:          s.AuthorID,
		authorOrder:       s.AuthorOrder,
		royaltyPercentage: s.RoyaltyPercentage,
	}
}
