package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubs-backend/internal/shared"
)

type widget struct {
	id      uuid.UUID
	version int64
}

func insertOp(w *widget) Operation {
	return Operation{
		Kind:   OpInsert,
		Entity: "widget",
		ID:     w.id,
		Apply: func(ctx context.Context, exec Executor) (int64, error) {
			return ExecInsert(ctx, exec, "widget", "INSERT INTO widgets (id) VALUES ($1)", w.id)
		},
		Accept: func() { w.version = 1 },
	}
}

func updateOp(w *widget) Operation {
	return Operation{
		Kind:   OpUpdate,
		Entity: "widget",
		ID:     w.id,
		Apply: func(ctx context.Context, exec Executor) (int64, error) {
			return ExecVersioned(ctx, exec, "widget", w.id, w.version,
				"UPDATE widgets SET version = version + 1 WHERE id = $1 AND version = $2", w.id, w.version)
		},
		Accept: func() { w.version++ },
	}
}

func newMockSession(t *testing.T) (*Session, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewSession(mock), mock
}

func TestSaveChanges_ImplicitTransaction(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()
	a := &widget{id: uuid.New()}
	b := &widget{id: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO widgets").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.Track(ctx, insertOp(a)))
	require.NoError(t, s.Track(ctx, insertOp(b)))
	assert.Equal(t, 2, s.PendingChanges())

	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, int64(1), a.version)
	assert.Equal(t, int64(1), b.version)
	assert.Equal(t, 0, s.PendingChanges())
	assert.Equal(t, StateCreated, s.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChanges_NothingPending(t *testing.T) {
	s, mock := newMockSession(t)

	n, err := s.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrack_SameEntityOnce(t *testing.T) {
	s, _ := newMockSession(t)
	ctx := context.Background()
	w := &widget{id: uuid.New()}

	require.NoError(t, s.Track(ctx, insertOp(w)))
	require.NoError(t, s.Track(ctx, updateOp(w)))
	assert.Equal(t, 1, s.PendingChanges())
}

func TestSaveChanges_FailureRollsBackAndKeepsVersions(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()
	a := &widget{id: uuid.New()}
	b := &widget{id: uuid.New(), version: 3}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE widgets").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	require.NoError(t, s.Track(ctx, insertOp(a)))
	require.NoError(t, s.Track(ctx, updateOp(b)))

	_, err := s.SaveChanges(ctx)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, int64(0), a.version)
	assert.Equal(t, int64(3), b.version)
	assert.Equal(t, 0, s.PendingChanges())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExplicitTransaction_Commit(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()
	a := &widget{id: uuid.New()}
	b := &widget{id: uuid.New()}

	mock.ExpectBegin()
	for _, w := range []*widget{a, b} {
		mock.ExpectBegin() // savepoint
		mock.ExpectExec("INSERT INTO widgets").WithArgs(w.id).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
	}
	mock.ExpectCommit()

	require.NoError(t, s.BeginTransaction(ctx))
	assert.Equal(t, StateActive, s.State())

	require.NoError(t, s.Track(ctx, insertOp(a)))
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Track(ctx, insertOp(b)))
	n, err = s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Commit(ctx))
	assert.Equal(t, StateCreated, s.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExplicitTransaction_Rollback(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, s.BeginTransaction(ctx))
	require.NoError(t, s.Track(ctx, insertOp(&widget{id: uuid.New()})))
	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Rollback(ctx))
	assert.Equal(t, StateCreated, s.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExplicitTransaction_FailedFlushLeavesNoPartialWrites(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()
	a := &widget{id: uuid.New()}
	b := &widget{id: uuid.New(), version: 3}

	mock.ExpectBegin()
	// flush lỗi: savepoint bị rollback, insert của a không còn
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WithArgs(a.id).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE widgets").WithArgs(b.id, int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()
	// retry trong cùng transaction
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO widgets").WithArgs(a.id).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectCommit()

	require.NoError(t, s.BeginTransaction(ctx))
	require.NoError(t, s.Track(ctx, insertOp(a)))
	require.NoError(t, s.Track(ctx, updateOp(b)))

	_, err := s.SaveChanges(ctx)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, int64(0), a.version)
	assert.Equal(t, StateActive, s.State())

	require.NoError(t, s.Track(ctx, insertOp(a)))
	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), a.version)

	require.NoError(t, s.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateMachine_Misuse(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Commit(ctx), shared.ErrInvalidState)
	assert.ErrorIs(t, s.Rollback(ctx), shared.ErrInvalidState)

	mock.ExpectBegin()
	require.NoError(t, s.BeginTransaction(ctx))
	assert.ErrorIs(t, s.BeginTransaction(ctx), shared.ErrInvalidState)
	assert.Equal(t, StateActive, s.State())
}

func TestClose_RollsBackActiveTransaction(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	require.NoError(t, s.BeginTransaction(ctx))
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, StateDisposed, s.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_ThenEverythingFails(t *testing.T) {
	s, mock := newMockSession(t)
	ctx := context.Background()

	require.NoError(t, s.Close(ctx))

	_, err := s.SaveChanges(ctx)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, s.BeginTransaction(ctx), shared.ErrInvalidState)
	assert.ErrorIs(t, s.Commit(ctx), shared.ErrInvalidState)
	assert.ErrorIs(t, s.Rollback(ctx), shared.ErrInvalidState)
	assert.ErrorIs(t, s.Track(ctx, insertOp(&widget{id: uuid.New()})), shared.ErrInvalidState)
	_, err = s.Conn(ctx)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelledContext(t *testing.T) {
	s, mock := newMockSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Track(ctx, insertOp(&widget{id: uuid.New()})))
	cancel()

	_, err := s.SaveChanges(ctx)
	assert.ErrorIs(t, err, shared.ErrCancelled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, s.BeginTransaction(ctx), shared.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcurrentWriters_StaleOneConflictsThenRetries(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	first, firstMock := newMockSession(t)
	second, secondMock := newMockSession(t)

	// both writers loaded version 1
	w1 := &widget{id: id, version: 1}
	w2 := &widget{id: id, version: 1}

	firstMock.ExpectBegin()
	firstMock.ExpectExec("UPDATE widgets").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	firstMock.ExpectCommit()

	secondMock.ExpectBegin()
	secondMock.ExpectExec("UPDATE widgets").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	secondMock.ExpectRollback()
	secondMock.ExpectBegin()
	secondMock.ExpectExec("UPDATE widgets").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	secondMock.ExpectCommit()

	require.NoError(t, first.Track(ctx, updateOp(w1)))
	_, err := first.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), w1.version)

	require.NoError(t, second.Track(ctx, updateOp(w2)))
	_, err = second.SaveChanges(ctx)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// re-fetch
	w2 = &widget{id: id, version: 2}
	require.NoError(t, second.Track(ctx, updateOp(w2)))
	_, err = second.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), w2.version)

	assert.NoError(t, firstMock.ExpectationsWereMet())
	assert.NoError(t, secondMock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = WithTransaction(context.Background(), mock, func(tx pgx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
