package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
	"pubs-backend/internal/shared/valueobject"
)

// BookType represents valid book categories
type BookType string

const (
	BookTypeBusiness      BookType = "business"
	BookTypePsychology    BookType = "psychology"
	BookTypeTechnology    BookType = "technology"
	BookTypeCooking       BookType = "cooking"
	BookTypeTraditional   BookType = "traditional"
	BookTypePopular       BookType = "popular"
	BookTypeModernCooking BookType = "modern_cooking"
)

func (t BookType) IsValid() bool {
	switch t {
	case BookTypeBusiness, BookTypePsychology, BookTypeTechnology, BookTypeCooking,
		BookTypeTraditional, BookTypePopular, BookTypeModernCooking:
		return true
	}
	return false
}

func (t BookType) String() string {
	return string(t)
}

// =====================================================
// AGGREGATE: Book
// =====================================================
type Book struct {
	entity.Base

	isbn          valueobject.ISBN
	title         string
	bookType      BookType
	publisherID   uuid.UUID
	price         valueobject.Money
	publishedDate *time.Time
	description   *string
	coverImageURL *string

	// Chỉ tăng qua RecordSale, không bao giờ giảm
	yearToDateSales int

	bookAuthors []*BookAuthor
}

// NewBook creates a book with zero year-to-date sales.
func NewBook(isbn valueobject.ISBN, title string, bookType BookType, publisherID uuid.UUID, price valueobject.Money) (*Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewInvalidArgument("title", "title cannot be empty")
	}
	if isbn.IsZero() {
		return nil, shared.NewInvalidArgument("isbn", "ISBN is required")
	}
	if !bookType.IsValid() {
		return nil, shared.NewInvalidArgument("type", "unknown book type "+string(bookType))
	}
	if publisherID == uuid.Nil {
		return nil, shared.NewInvalidArgument("publisherId", "publisher is required")
	}
	if price.IsZero() {
		return nil, shared.NewInvalidArgument("price", "price is required")
	}

	return &Book{
		Base:        entity.NewBase(),
		isbn:        isbn,
		title:       title,
		bookType:    bookType,
		publisherID: publisherID,
		price:       price,
	}, nil
}

func (b *Book) ISBN() valueobject.ISBN     { return b.isbn }
func (b *Book) Title() string              { return b.title }
func (b *Book) Type() BookType             { return b.bookType }
func (b *Book) PublisherID() uuid.UUID     { return b.publisherID }
func (b *Book) Price() valueobject.Money   { return b.price }
func (b *Book) PublishedDate() *time.Time  { return b.publishedDate }
func (b *Book) Description() *string       { return b.description }
func (b *Book) CoverImageURL() *string     { return b.coverImageURL }
func (b *Book) YearToDateSales() int       { return b.yearToDateSales }
func (b *Book) BookAuthors() []*BookAuthor { return append([]*BookAuthor(nil), b.bookAuthors...) }
func (b *Book) IsPublished() bool          { return b.publishedDate != nil }

// UpdateDetails replaces title, type and description together.
func (b *Book) UpdateDetails(title string, bookType BookType, description *string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewInvalidArgument("title", "title cannot be empty")
	}
	if !bookType.IsValid() {
		return shared.NewInvalidArgument("type", "unknown book type "+string(bookType))
	}

	b.title = title
	b.bookType = bookType
	b.description = description
	b.Touch()
	return nil
}

func (b *Book) UpdatePrice(price valueobject.Money) error {
	if price.IsZero() {
		return shared.NewInvalidArgument("price", "price is required")
	}

	b.price = price
	b.Touch()
	return nil
}

func (b *Book) UpdateCoverImage(imageURL string) {
	b.coverImageURL = &imageURL
	b.Touch()
}

func (b *Book) Publish(publishDate time.Time) error {
	if publishDate.IsZero() {
		return shared.NewInvalidArgument("publishDate", "publish date is required")
	}

	b.publishedDate = &publishDate
	b.Touch()
	return nil
}

// RecordSale adds quantity to the year-to-date counter.
func (b *Book) RecordSale(quantity int) error {
	if quantity <= 0 {
		return shared.NewInvalidArgument("quantity", "quantity must be positive")
	}

	b.yearToDateSales += quantity
	b.Touch()
	return nil
}

// AddAuthor links an author to this book. Same link shape as Author.AddBook.
func (b *Book) AddAuthor(author entity.Identifiable, authorOrder int, royaltyPercentage decimal.Decimal) (*BookAuthor, error) {
	if entity.IsNil(author) {
		return nil, shared.NewInvalidArgument("author", "author is required")
	}
	if b.hasAuthor(author.ID()) {
		return nil, shared.NewInvalidArgument("author", "author already linked to this book")
	}

	link, err := NewBookAuthor(b.ID(), author.ID(), authorOrder, royaltyPercentage)
	if err != nil {
		return nil, err
	}

	b.bookAuthors = append(b.bookAuthors, link)
	b.Touch()
	return link, nil
}

func (b *Book) hasAuthor(authorID uuid.UUID) bool {
	for _, link := range b.bookAuthors {
		if link.AuthorID() == authorID {
			return true
		}
	}
	return false
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type BookSnapshot struct {
	Base            entity.Snapshot
	ISBN            valueobject.ISBN
	Title           string
	Type            BookType
	PublisherID     uuid.UUID
	Price           valueobject.Money
	PublishedDate   *time.Time
	Description     *string
	CoverImageURL   *string
	YearToDateSales int
}

func (b *Book) Snapshot() BookSnapshot {
	return BookSnapshot{
		Base:            b.Base.Snapshot(),
		ISBN:            b.isbn,
		Title:           b.title,
		Type:            b.bookType,
		PublisherID:     b.publisherID,
		Price:           b.price,
		PublishedDate:   b.publishedDate,
		Description:     b.description,
		CoverImageURL:   b.coverImageURL,
		YearToDateSales: b.yearToDateSales,
	}
}

// RestoreBook rebuilds a Book loaded by a repository.
func RestoreBook(s BookSnapshot, authors []*BookAuthor) *Book {
	return &Book{
		Base:            entity.Restore(s.Base),
		isbn:            s.ISBN,
		title:           s.Title,
		bookType:        s.Type,
		publisherID:     s.PublisherID,
		price:           s.Price,
		publishedDate:   s.PublishedDate,
		description:     s.Description,
		coverImageURL:   s.CoverImageURL,
		yearToDateSales: s.YearToDateSales,
		bookAuthors:     authors,
	}
}
