package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"pubs-backend/internal/shared"
)

// Executor là phần chung của pgxpool.Pool và pgx.Tx mà repositories dùng
// để chạy SQL, nên cùng một câu lệnh chạy được trong hoặc ngoài transaction.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner opens a transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool is satisfied by *pgxpool.Pool (and by pgxmock in tests).
type Pool interface {
	Executor
	TxBeginner
}

// ExecVersioned runs an optimistic-locking statement. The statement must
// filter on both id and version; zero affected rows means another writer
// got there first.
func ExecVersioned(ctx context.Context, exec Executor, entity string, id uuid.UUID, version int64, sql string, args ...any) (int64, error) {
	tag, err := exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s %s: %w", entity, id, shared.TranslateContextError(err))
	}
	if tag.RowsAffected() == 0 {
		return 0, shared.NewConcurrencyConflict(entity, id, version)
	}
	return tag.RowsAffected(), nil
}

// ExecInsert runs an INSERT and reports the affected rows.
func ExecInsert(ctx context.Context, exec Executor, entity string, sql string, args ...any) (int64, error) {
	tag, err := exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", entity, shared.TranslateContextError(err))
	}
	return tag.RowsAffected(), nil
}

// UUIDArray binds ids as an array parameter, used with "= ANY($n)".
func UUIDArray(ids []uuid.UUID) any {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return pq.Array(strs)
}
