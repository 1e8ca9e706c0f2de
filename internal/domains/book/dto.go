package book

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/domains/book/model"
)

const (
	// MaxSearchLength - giới hạn độ dài từ khoá tìm kiếm
	MaxSearchLength      = 100
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	MaxAuthorsPerBook    = 20
)

var hundred = decimal.NewFromInt(100)

// ========================================
// REQUESTS
// ========================================

// CreateBookRequest - POST /api/v1/books
type CreateBookRequest struct {
	ISBN          string              `json:"isbn" binding:"required"`
	Title         string              `json:"title" binding:"required"`
	Type          string              `json:"type" binding:"required"`
	PublisherID   uuid.UUID           `json:"publisher_id"`
	Price         decimal.Decimal     `json:"price"`
	Currency      string              `json:"currency,omitempty"`
	PublishedDate *time.Time          `json:"published_date,omitempty"`
	Description   *string             `json:"description,omitempty"`
	CoverImageURL *string             `json:"cover_image_url,omitempty"`
	Authors       []BookAuthorRequest `json:"authors,omitempty"`
}

// BookAuthorRequest - one author link; Order mặc định theo vị trí trong list
type BookAuthorRequest struct {
	AuthorID          uuid.UUID       `json:"author_id"`
	Order             int             `json:"order,omitempty"`
	RoyaltyPercentage decimal.Decimal `json:"royalty_percentage"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ISBN, validation.Required),
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Type,
			validation.Required,
			validation.By(func(value interface{}) error {
				if t, _ := value.(string); !model.BookType(t).IsValid() {
					return errors.New("unknown book type")
				}
				return nil
			}),
		),
		validation.Field(&r.PublisherID, validation.By(func(value interface{}) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return errors.New("publisher id is required")
			}
			return nil
		})),
		validation.Field(&r.Price, validation.By(func(value interface{}) error {
			if p, _ := value.(decimal.Decimal); p.IsNegative() {
				return errors.New("price cannot be negative")
			}
			return nil
		})),
		validation.Field(&r.Currency, validation.Length(3, 3), is.UpperCase),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLength)),
		validation.Field(&r.CoverImageURL, is.URL),
		validation.Field(&r.Authors, validation.Length(0, MaxAuthorsPerBook)),
	)
}

func (r BookAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.By(func(value interface{}) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return errors.New("author id is required")
			}
			return nil
		})),
		validation.Field(&r.Order, validation.Min(0)),
		validation.Field(&r.RoyaltyPercentage, validation.By(func(value interface{}) error {
			if p, _ := value.(decimal.Decimal); p.IsNegative() || p.GreaterThan(hundred) {
				return errors.New("royalty percentage must be between 0 and 100")
			}
			return nil
		})),
	)
}

// ========================================
// RESPONSES
// ========================================

// BookResponse - JSON shape of a book
type BookResponse struct {
	ID              uuid.UUID            `json:"id"`
	ISBN            string               `json:"isbn"`
	Title           string               `json:"title"`
	Type            string               `json:"type"`
	PublisherID     uuid.UUID            `json:"publisher_id"`
	Price           decimal.Decimal      `json:"price"`
	Currency        string               `json:"currency"`
	PublishedDate   *time.Time           `json:"published_date,omitempty"`
	Description     *string              `json:"description,omitempty"`
	CoverImageURL   *string              `json:"cover_image_url,omitempty"`
	YearToDateSales int                  `json:"year_to_date_sales"`
	Version         int64                `json:"version"`
	Authors         []AuthorLinkResponse `json:"authors"`
}

// AuthorLinkResponse - one author of the book
type AuthorLinkResponse struct {
	AuthorID          uuid.UUID       `json:"author_id"`
	AuthorOrder       int             `json:"author_order"`
	RoyaltyPercentage decimal.Decimal `json:"royalty_percentage"`
}

func ToBookResponse(b *model.Book) *BookResponse {
	resp := &BookResponse{
		ID:              b.ID(),
		ISBN:            b.ISBN().Value(),
		Title:           b.Title(),
		Type:            b.Type().String(),
		PublisherID:     b.PublisherID(),
		Price:           b.Price().Amount(),
		Currency:        b.Price().Currency(),
		PublishedDate:   b.PublishedDate(),
		Description:     b.Description(),
		CoverImageURL:   b.CoverImageURL(),
		YearToDateSales: b.YearToDateSales(),
		Version:         b.Version(),
		Authors:         make([]AuthorLinkResponse, 0, len(b.BookAuthors())),
	}
	for _, link := range b.BookAuthors() {
		resp.Authors = append(resp.Authors, AuthorLinkResponse{
			AuthorID:          link.AuthorID(),
			AuthorOrder:       link.AuthorOrder(),
			RoyaltyPercentage: link.RoyaltyPercentage(),
		})
	}
	return resp
}

func ToBookResponses(books []*model.Book) []*BookResponse {
	out := make([]*BookResponse, len(books))
	for i, b := range books {
		out[i] = ToBookResponse(b)
	}
	return out
}
