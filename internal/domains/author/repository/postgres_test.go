package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubs-backend/internal/domains/author/model"
	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
	"pubs-backend/pkg/database"
)

func setup(t *testing.T) (*database.Session, RepositoryInterface, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	session := database.NewSession(mock)
	return session, NewPostgresRepository(session), mock
}

// anyArgs matches a statement with n bound parameters.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newAuthor(t *testing.T) *model.Author {
	t.Helper()
	a, err := model.NewAuthor("Ann", "Lee", "ann@example.com", nil)
	require.NoError(t, err)
	return a
}

// loaded simulates an author read back from the database at the given version.
func loaded(a *model.Author, version int64) *model.Author {
	s := a.Snapshot()
	s.Base.Version = version
	return model.RestoreAuthor(s, nil)
}

func TestAdd_InsertsAuthorAndLinks(t *testing.T) {
	session, repo, mock := setup(t)
	ctx := shared.WithActor(context.Background(), "editor")

	a := newAuthor(t)
	book, err := bookModel.NewBook(valueobject.MustISBN("0306406152"), "T",
		bookModel.BookTypeBusiness, uuid.New(), valueobject.USD(10))
	require.NoError(t, err)
	link, err := a.AddBook(book, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO authors").WithArgs(anyArgs(18)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO book_authors").WithArgs(anyArgs(11)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(ctx, a))
	n, err := session.SaveChanges(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(1), a.Version())
	assert.False(t, a.HasChanges())
	assert.Equal(t, int64(1), link.Version())
	require.NotNil(t, a.CreatedBy())
	assert.Equal(t, "editor", *a.CreatedBy())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_RejectsPersistedAuthor(t *testing.T) {
	_, repo, _ := setup(t)

	err := repo.Add(context.Background(), loaded(newAuthor(t), 3))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	var missing *model.Author
	assert.ErrorIs(t, repo.Add(context.Background(), missing), shared.ErrInvalidArgument)
}

func TestUpdate_BumpsVersion(t *testing.T) {
	session, repo, mock := setup(t)
	ctx := context.Background()
	a := loaded(newAuthor(t), 4)
	require.NoError(t, a.UpdateContractStatus(model.ContractStatusActive))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE authors").WithArgs(anyArgs(17)...).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(ctx, a))
	_, err := session.SaveChanges(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), a.Version())
	require.NotNil(t, a.UpdatedBy())
	assert.Equal(t, shared.SystemActor, *a.UpdatedBy())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_StaleVersionConflicts(t *testing.T) {
	session, repo, mock := setup(t)
	ctx := context.Background()
	a := loaded(newAuthor(t), 1)
	a.UpdateBiography("bio")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE authors").WithArgs(anyArgs(17)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	require.NoError(t, repo.Update(ctx, a))
	_, err := session.SaveChanges(ctx)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, int64(1), a.Version())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_IsSoftAndLeavesLinks(t *testing.T) {
	session, repo, mock := setup(t)
	ctx := shared.WithActor(context.Background(), "admin")

	original := newAuthor(t)
	link, err := bookModel.NewBookAuthor(uuid.New(), original.ID(), 1, decimal.NewFromInt(5))
	require.NoError(t, err)
	link.AcceptChanges(1)
	s := original.Snapshot()
	s.Base.Version = 2
	a := model.RestoreAuthor(s, []*bookModel.BookAuthor{link})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE authors").WithArgs(anyArgs(17)...).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(ctx, a))
	_, err = session.SaveChanges(ctx)
	require.NoError(t, err)

	base := a.Snapshot().Base
	assert.True(t, base.IsDeleted)
	require.NotNil(t, base.DeletedAt)
	assert.Equal(t, *base.DeletedAt, *base.UpdatedAt)
	assert.Equal(t, "admin", *base.UpdatedBy)
	assert.False(t, link.IsDeleted())
	assert.Equal(t, int64(3), a.Version())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedSessionRejectsRepositoryCalls(t *testing.T) {
	session, repo, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, session.Close(ctx))

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, repo.Add(ctx, newAuthor(t)), shared.ErrInvalidState)
}
