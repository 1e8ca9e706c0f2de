package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"pubs-backend/internal/shared"
)

// OpKind is the kind of a tracked write.
type OpKind string

const (
	OpInsert OpKind = "insert"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Operation là một thay đổi đang chờ ghi. Apply đọc state của aggregate tại
// thời điểm flush, Accept chỉ chạy khi toàn bộ flush đã thành công.
type Operation struct {
	Kind   OpKind
	Entity string
	ID     uuid.UUID
	Apply  func(ctx context.Context, exec Executor) (int64, error)
	Accept func()
}

func (op Operation) key() string {
	return op.Entity + ":" + op.ID.String()
}

// SessionState is the Unit of Work lifecycle state.
type SessionState int

const (
	StateCreated SessionState = iota
	StateActive
	StateDisposed
)

func (s SessionState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// =====================================================
// SESSION (Unit of Work core)
// =====================================================

// Session gom các thay đổi của nhiều repositories vào một change set và
// ghi chúng xuống trong một transaction.
//
//	Created --BeginTransaction--> Active --Commit/Rollback--> Created
//	any --Close--> Disposed
//
// A Session is meant for one request or workflow; it is not shared.
type Session struct {
	mu      sync.Mutex
	pool    Pool
	tx      pgx.Tx
	state   SessionState
	pending []Operation
	keys    map[string]struct{}
}

func NewSession(pool Pool) *Session {
	return &Session{
		pool: pool,
		keys: make(map[string]struct{}),
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingChanges reports how many operations wait for SaveChanges.
func (s *Session) PendingChanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Conn implements Tracker.
func (s *Session) Conn(ctx context.Context) (Executor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	if s.tx != nil {
		return s.tx, nil
	}
	return s.pool, nil
}

// Track queues op. A second operation for the same entity is dropped, the
// first one already writes the latest state when it runs.
func (s *Session) Track(ctx context.Context, op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return err
	}
	if op.Apply == nil {
		return shared.NewInvalidArgument("op", "operation has no statement")
	}

	k := op.key()
	if _, ok := s.keys[k]; ok {
		return nil
	}
	s.keys[k] = struct{}{}
	s.pending = append(s.pending, op)
	return nil
}

// SaveChanges flushes every pending operation and returns the summed number
// of affected rows. Outside an explicit transaction it opens one for this
// call only; inside one it runs in a savepoint, so a failed flush leaves none
// of its writes behind. Pending changes are cleared whether the flush
// succeeds or not.
func (s *Session) SaveChanges(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return 0, err
	}

	ops := s.pending
	s.clearPending()
	if len(ops) == 0 {
		return 0, nil
	}

	// Begin trên tx mở SAVEPOINT
	var beginner TxBeginner = s.pool
	if s.tx != nil {
		beginner = s.tx
	}
	affected, err := WithTransactionResult(ctx, beginner, func(tx pgx.Tx) (int64, error) {
		return flush(ctx, tx, ops)
	})
	if err != nil {
		log.Debug().Err(err).Int("operations", len(ops)).Msg("save changes failed")
		return 0, err
	}

	for _, op := range ops {
		if op.Accept != nil {
			op.Accept()
		}
	}

	log.Debug().Int("operations", len(ops)).Int64("rows", affected).Msg("changes saved")
	return affected, nil
}

func flush(ctx context.Context, exec Executor, ops []Operation) (int64, error) {
	var total int64
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return 0, shared.Cancelled(err)
		}

		n, err := op.Apply(ctx, exec)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// BeginTransaction starts an explicit transaction. Nested transactions are
// not supported.
func (s *Session) BeginTransaction(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return err
	}
	if s.state == StateActive {
		return shared.NewInvalidState("transaction already active")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", shared.TranslateContextError(err))
	}

	s.tx = tx
	s.state = StateActive
	log.Debug().Msg("transaction started")
	return nil
}

// Commit commits the explicit transaction. Changes tracked but not saved are
// discarded.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	if s.state != StateActive {
		return shared.NewInvalidState("no active transaction to commit")
	}

	tx := s.tx
	s.tx = nil
	s.state = StateCreated
	s.clearPending()

	if err := tx.Commit(ctx); err != nil {
		rollbackQuietly(tx)
		return fmt.Errorf("failed to commit transaction: %w", shared.TranslateContextError(err))
	}

	log.Debug().Msg("transaction committed")
	return nil
}

// Rollback aborts the explicit transaction. Aggregates written inside it keep
// their in-memory state and should be reloaded.
func (s *Session) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	if s.state != StateActive {
		return shared.NewInvalidState("no active transaction to roll back")
	}

	tx := s.tx
	s.tx = nil
	s.state = StateCreated
	s.clearPending()

	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", shared.TranslateContextError(err))
	}

	log.Debug().Msg("transaction rolled back")
	return nil
}

// Close rolls back an active transaction and disposes the session. Safe to
// call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return nil
	}

	var err error
	if s.tx != nil {
		log.Warn().Msg("closing unit of work with an active transaction, rolling back")
		if rbErr := s.tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed to rollback transaction: %w", shared.TranslateContextError(rbErr))
		}
		s.tx = nil
	}

	s.state = StateDisposed
	s.clearPending()
	return err
}

func (s *Session) usable(ctx context.Context) error {
	if s.state == StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	return shared.CheckContext(ctx)
}

func (s *Session) clearPending() {
	s.pending = nil
	s.keys = make(map[string]struct{})
}
