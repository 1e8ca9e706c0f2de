package service

import (
	"context"

	"pubs-backend/internal/domains/book"
	"pubs-backend/internal/domains/book/model"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	// Create adds a book with its author links in one unit of work.
	// Errors: ErrInvalidArgument (duplicate ISBN), ErrInvalidFormat, ErrNotFound (publisher, author)
	Create(ctx context.Context, req *book.CreateBookRequest) (*model.Book, error)
	// GetByISBN validates the ISBN before touching the database.
	// Errors: ErrInvalidFormat, ErrNotFound
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	// Search matches title, description or ISBN. A blank term lists every live book.
	Search(ctx context.Context, term string) ([]*model.Book, error)
}
