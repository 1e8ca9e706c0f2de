package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "pubs-backend/internal/domains/author/model"
	bookModel "pubs-backend/internal/domains/book/model"
	publisherModel "pubs-backend/internal/domains/publisher/model"
	saleModel "pubs-backend/internal/domains/sale/model"
	storeModel "pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
)

func newMockUnitOfWork(t *testing.T) (UnitOfWork, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewFactory(mock).New(), mock
}

// anyArgs matches a statement with n bound parameters.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

type graph struct {
	publisher *publisherModel.Publisher
	book      *bookModel.Book
	store     *storeModel.Store
	sale      *saleModel.Sale
}

func newGraph(t *testing.T) graph {
	t.Helper()
	p, err := publisherModel.NewPublisher("Acme", nil, nil)
	require.NoError(t, err)
	b, err := bookModel.NewBook(valueobject.MustISBN("0306406152"), "T", bookModel.BookTypeBusiness, p.ID(), valueobject.USD(10))
	require.NoError(t, err)
	s, err := storeModel.NewStore("Corner", nil, nil)
	require.NoError(t, err)
	sale, err := saleModel.NewSale("ORD-1", s.ID())
	require.NoError(t, err)
	_, err = sale.AddItem(b, 2, decimal.Zero)
	require.NoError(t, err)
	return graph{publisher: p, book: b, store: s, sale: sale}
}

func (g graph) track(t *testing.T, ctx context.Context, uow UnitOfWork) {
	t.Helper()
	require.NoError(t, uow.Publishers().Add(ctx, g.publisher))
	require.NoError(t, uow.Books().Add(ctx, g.book))
	require.NoError(t, uow.Stores().Add(ctx, g.store))
	require.NoError(t, uow.Sales().Add(ctx, g.sale))
}

func TestUnitOfWork_MultiAggregateCommit(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)
	ctx := context.Background()
	g := newGraph(t)

	mock.ExpectBegin()
	mock.ExpectBegin() // savepoint
	mock.ExpectExec("INSERT INTO publishers").WithArgs(anyArgs(16)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO books").WithArgs(anyArgs(17)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO stores").WithArgs(anyArgs(15)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sales").WithArgs(anyArgs(12)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sale_items").WithArgs(anyArgs(12)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectCommit()

	require.NoError(t, uow.BeginTransaction(ctx))
	g.track(t, ctx, uow)
	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Close(ctx))

	assert.Equal(t, int64(5), n)
	assert.Equal(t, int64(1), g.sale.Version())
	assert.Equal(t, int64(1), g.sale.Items()[0].Version())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CloseRollsBackUncommittedWork(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)
	ctx := context.Background()
	g := newGraph(t)

	mock.ExpectBegin()
	mock.ExpectBegin() // savepoint
	mock.ExpectExec("INSERT INTO publishers").WithArgs(anyArgs(16)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO books").WithArgs(anyArgs(17)...).WillReturnError(assert.AnError)
	mock.ExpectRollback()
	mock.ExpectRollback()

	require.NoError(t, uow.BeginTransaction(ctx))
	g.track(t, ctx, uow)
	_, err := uow.SaveChanges(ctx)
	require.ErrorIs(t, err, assert.AnError)

	require.NoError(t, uow.Close(ctx))
	assert.Equal(t, int64(0), g.publisher.Version())

	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_PairLinkedFromBothSidesFails(t *testing.T) {
	uow, mock := newMockUnitOfWork(t)
	ctx := context.Background()

	a, err := authorModel.NewAuthor("Ann", "Lee", "ann@example.com", nil)
	require.NoError(t, err)
	b, err := bookModel.NewBook(valueobject.MustISBN("0306406152"), "T", bookModel.BookTypeBusiness, uuid.New(), valueobject.USD(10))
	require.NoError(t, err)
	fromAuthor, err := a.AddBook(b, 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	fromBook, err := b.AddAuthor(a, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO authors").WithArgs(anyArgs(18)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO book_authors").WithArgs(anyArgs(11)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO books").WithArgs(anyArgs(17)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// ON CONFLICT DO NOTHING
	mock.ExpectExec("INSERT INTO book_authors").WithArgs(anyArgs(11)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectRollback()

	require.NoError(t, uow.Authors().Add(ctx, a))
	require.NoError(t, uow.Books().Add(ctx, b))
	_, err = uow.SaveChanges(ctx)

	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.True(t, fromAuthor.IsNew())
	assert.True(t, fromBook.IsNew())
	assert.True(t, a.IsNew())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactory_NewIsIndependent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	f := NewFactory(mock)
	first, second := f.New(), f.New()
	ctx := context.Background()

	require.NoError(t, first.Close(ctx))
	_, err = second.SaveChanges(ctx)
	assert.NoError(t, err)
}
