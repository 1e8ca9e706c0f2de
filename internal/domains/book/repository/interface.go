package repository

import (
	"context"

	"pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared/valueobject"
	"pubs-backend/pkg/database"
)

// RepositoryInterface - Định nghĩa data access methods
type RepositoryInterface interface {
	database.Repository[*model.Book]

	// GetBooksWithAuthors returns live books with their live author links.
	GetBooksWithAuthors(ctx context.Context) ([]*model.Book, error)
	// GetByISBN returns (nil, nil) when no book has this ISBN.
	GetByISBN(ctx context.Context, isbn valueobject.ISBN) (*model.Book, error)
	// SearchBooks matches title, description or ISBN, case-insensitive.
	SearchBooks(ctx context.Context, term string) ([]*model.Book, error)
}
