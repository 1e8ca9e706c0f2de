package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"pubs-backend/internal/domains/book"
	"pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/request"
	"pubs-backend/internal/shared/valueobject"
)

const entityName = "book"

// BookService - Implements ServiceInterface
type BookService struct {
	uow persistence.Factory
}

// NewService - Constructor with DI
func NewService(uow persistence.Factory) ServiceInterface {
	return &BookService{uow: uow}
}

func (s *BookService) Create(ctx context.Context, req *book.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewInvalidArgument(entityName, err.Error())
	}

	isbn, err := valueobject.NewISBN(req.ISBN)
	if err != nil {
		return nil, err
	}
	price, err := valueobject.NewMoney(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	existing, err := uow.Books().GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewInvalidArgument("isbn", "ISBN "+isbn.Value()+" is already registered")
	}

	publisher, err := uow.Publishers().GetByID(ctx, req.PublisherID)
	if err != nil {
		return nil, err
	}
	if publisher == nil || publisher.IsDeleted() {
		return nil, shared.NewNotFound("publisher", req.PublisherID)
	}

	b, err := model.NewBook(isbn, strings.TrimSpace(req.Title), model.BookType(req.Type), publisher.ID(), price)
	if err != nil {
		return nil, err
	}
	if description := request.NonBlank(req.Description); description != nil {
		if err := b.UpdateDetails(b.Title(), b.Type(), description); err != nil {
			return nil, err
		}
	}
	if cover := request.NonBlank(req.CoverImageURL); cover != nil {
		b.UpdateCoverImage(*cover)
	}
	if req.PublishedDate != nil {
		if err := b.Publish(*req.PublishedDate); err != nil {
			return nil, err
		}
	}

	for i, link := range req.Authors {
		a, err := uow.Authors().GetByID(ctx, link.AuthorID)
		if err != nil {
			return nil, err
		}
		if a == nil || a.IsDeleted() {
			return nil, shared.NewNotFound("author", link.AuthorID)
		}

		order := link.Order
		if order == 0 {
			order = i + 1
		}
		if _, err := b.AddAuthor(a, order, link.RoyaltyPercentage); err != nil {
			return nil, err
		}
	}

	if err := uow.Books().Add(ctx, b); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	log.Info().
		Str("book_id", b.ID().String()).
		Str("isbn", isbn.Value()).
		Int("authors", len(req.Authors)).
		Msg("book created")
	return b, nil
}

func (s *BookService) GetByISBN(ctx context.Context, raw string) (*model.Book, error) {
	isbn, err := valueobject.NewISBN(raw)
	if err != nil {
		return nil, err
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	b, err := uow.Books().GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if b == nil || b.IsDeleted() {
		return nil, shared.NewNotFound(entityName, isbn.Value())
	}
	return b, nil
}

func (s *BookService) Search(ctx context.Context, term string) ([]*model.Book, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) > book.MaxSearchLength {
		return nil, shared.NewInvalidArgument("q", "search term must not exceed 100 characters")
	}

	uow := s.uow.New()
	defer persistence.CloseQuietly(ctx, uow)

	books, err := uow.Books().SearchBooks(ctx, term)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("term", term).Int("results", len(books)).Msg("book search")
	return books, nil
}
