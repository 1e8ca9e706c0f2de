// Package persistence ghép Session với các repositories thành Unit of Work
// mà services sử dụng.
package persistence

import (
	"context"

	"github.com/rs/zerolog/log"

	authorRepo "pubs-backend/internal/domains/author/repository"
	bookRepo "pubs-backend/internal/domains/book/repository"
	publisherRepo "pubs-backend/internal/domains/publisher/repository"
	saleRepo "pubs-backend/internal/domains/sale/repository"
	storeRepo "pubs-backend/internal/domains/store/repository"
	"pubs-backend/pkg/database"
)

// UnitOfWork exposes one instance of each repository sharing one change set
// and one transaction. Always defer Close.
type UnitOfWork interface {
	Authors() authorRepo.RepositoryInterface
	Books() bookRepo.RepositoryInterface
	Publishers() publisherRepo.RepositoryInterface
	Stores() storeRepo.RepositoryInterface
	Sales() saleRepo.RepositoryInterface

	SaveChanges(ctx context.Context) (int64, error)
	BeginTransaction(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close(ctx context.Context) error
}

// Factory creates a fresh UnitOfWork per request or workflow.
type Factory interface {
	New() UnitOfWork
}

type unitOfWork struct {
	*database.Session

	authors    authorRepo.RepositoryInterface
	books      bookRepo.RepositoryInterface
	publishers publisherRepo.RepositoryInterface
	stores     storeRepo.RepositoryInterface
	sales      saleRepo.RepositoryInterface
}

// NewUnitOfWork wires the five repositories onto one session.
func NewUnitOfWork(pool database.Pool) UnitOfWork {
	session := database.NewSession(pool)
	return &unitOfWork{
		Session:    session,
		authors:    authorRepo.NewPostgresRepository(session),
		books:      bookRepo.NewPostgresRepository(session),
		publishers: publisherRepo.NewPostgresRepository(session),
		stores:     storeRepo.NewPostgresRepository(session),
		sales:      saleRepo.NewPostgresRepository(session),
	}
}

func (u *unitOfWork) Authors() authorRepo.RepositoryInterface       { return u.authors }
func (u *unitOfWork) Books() bookRepo.RepositoryInterface           { return u.books }
func (u *unitOfWork) Publishers() publisherRepo.RepositoryInterface { return u.publishers }
func (u *unitOfWork) Stores() storeRepo.RepositoryInterface         { return u.stores }
func (u *unitOfWork) Sales() saleRepo.RepositoryInterface           { return u.sales }

type factory struct {
	pool database.Pool
}

func NewFactory(pool database.Pool) Factory {
	return &factory{pool: pool}
}

func (f *factory) New() UnitOfWork {
	return NewUnitOfWork(f.pool)
}

// CloseQuietly closes uow and logs a failed rollback. Meant for defer.
func CloseQuietly(ctx context.Context, uow UnitOfWork) {
	if err := uow.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to close unit of work")
	}
}
