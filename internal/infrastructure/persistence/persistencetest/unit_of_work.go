package persistencetest

import (
	"context"
	"sync"

	authorRepo "pubs-backend/internal/domains/author/repository"
	bookRepo "pubs-backend/internal/domains/book/repository"
	publisherRepo "pubs-backend/internal/domains/publisher/repository"
	saleRepo "pubs-backend/internal/domains/sale/repository"
	storeRepo "pubs-backend/internal/domains/store/repository"
	"pubs-backend/internal/infrastructure/persistence"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
	"pubs-backend/pkg/database"
)

var (
	_ persistence.UnitOfWork = (*UnitOfWork)(nil)
	_ persistence.Factory    = (*Factory)(nil)
)

// builder reads the aggregate at flush time and returns its row writes plus
// the accept callback.
type builder func(ctx context.Context) ([]rowWrite, func())

type op struct {
	key   string
	build builder
}

// UnitOfWork is the in-memory persistence.UnitOfWork.
type UnitOfWork struct {
	db *DB

	mu      sync.Mutex
	state   database.SessionState
	tx      *tables
	txLog   []rowWrite
	pending []op
	keys    map[string]struct{}

	commits   int
	rollbacks int
}

func NewUnitOfWork(db *DB) *UnitOfWork {
	return &UnitOfWork{db: db, keys: make(map[string]struct{})}
}

func (u *UnitOfWork) Authors() authorRepo.RepositoryInterface       { return &authorRepository{u: u} }
func (u *UnitOfWork) Books() bookRepo.RepositoryInterface           { return &bookRepository{u: u} }
func (u *UnitOfWork) Publishers() publisherRepo.RepositoryInterface { return &publisherRepository{u: u} }
func (u *UnitOfWork) Stores() storeRepo.RepositoryInterface         { return &storeRepository{u: u} }
func (u *UnitOfWork) Sales() saleRepo.RepositoryInterface           { return &saleRepository{u: u} }

func (u *UnitOfWork) State() database.SessionState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Commits and Rollbacks count explicit transaction outcomes.
func (u *UnitOfWork) Commits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.commits
}

func (u *UnitOfWork) Rollbacks() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rollbacks
}

func (u *UnitOfWork) PendingChanges() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.usable(ctx); err != nil {
		return 0, err
	}

	ops := u.pending
	u.clearPending()
	if len(ops) == 0 {
		return 0, nil
	}

	var (
		writes  []rowWrite
		accepts []func()
	)
	for _, o := range ops {
		if err := ctx.Err(); err != nil {
			return 0, shared.Cancelled(err)
		}
		ws, accept := o.build(ctx)
		writes = append(writes, ws...)
		accepts = append(accepts, accept)
	}

	if err := u.db.takeFailure(); err != nil {
		return 0, err
	}

	var (
		n   int64
		err error
	)
	if u.tx != nil {
		next := u.tx.clone()
		if n, err = run(next, writes); err == nil {
			u.tx = next
			u.txLog = append(u.txLog, writes...)
		}
	} else {
		n, err = u.db.apply(writes)
	}
	if err != nil {
		return 0, err
	}

	database.Accepts(accepts...)()
	return n, nil
}

func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.usable(ctx); err != nil {
		return err
	}
	if u.state == database.StateActive {
		return shared.NewInvalidState("transaction already active")
	}

	u.tx = u.db.current().clone()
	u.txLog = nil
	u.state = database.StateActive
	return nil
}

// Commit replays the transaction's writes against the latest shared state,
// so version conflicts with other units of work surface here.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == database.StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	if u.state != database.StateActive {
		return shared.NewInvalidState("no active transaction to commit")
	}

	writes := u.txLog
	u.endTx()

	if err := u.db.takeFailure(); err != nil {
		return err
	}
	if _, err := u.db.apply(writes); err != nil {
		return err
	}
	u.commits++
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == database.StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	if u.state != database.StateActive {
		return shared.NewInvalidState("no active transaction to roll back")
	}

	u.endTx()
	u.rollbacks++
	return nil
}

func (u *UnitOfWork) Close(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == database.StateDisposed {
		return nil
	}
	if u.tx != nil {
		u.rollbacks++
	}
	u.endTx()
	u.state = database.StateDisposed
	return nil
}

func (u *UnitOfWork) endTx() {
	u.tx = nil
	u.txLog = nil
	u.state = database.StateCreated
	u.clearPending()
}

func (u *UnitOfWork) clearPending() {
	u.pending = nil
	u.keys = make(map[string]struct{})
}

func (u *UnitOfWork) usable(ctx context.Context) error {
	if u.state == database.StateDisposed {
		return shared.NewInvalidState("unit of work is closed")
	}
	return shared.CheckContext(ctx)
}

// read returns the state visible to this unit of work.
func (u *UnitOfWork) read(ctx context.Context) (*tables, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.usable(ctx); err != nil {
		return nil, err
	}
	if u.tx != nil {
		return u.tx, nil
	}
	return u.db.current(), nil
}

func (u *UnitOfWork) track(ctx context.Context, name string, id string, b builder) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.usable(ctx); err != nil {
		return err
	}
	key := name + ":" + id
	if _, ok := u.keys[key]; ok {
		return nil
	}
	u.keys[key] = struct{}{}
	u.pending = append(u.pending, op{key: key, build: b})
	return nil
}

// =====================================================
// TRACKING (same checks as database.TrackAdd/Update/Delete)
// =====================================================

func (u *UnitOfWork) add(ctx context.Context, name string, a database.Aggregate, b builder) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if !a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is already persisted, use Update")
	}
	a.AssignCreator(shared.ActorFromContext(ctx))
	return u.track(ctx, name, a.ID().String(), b)
}

func (u *UnitOfWork) update(ctx context.Context, name string, a database.Aggregate, b builder) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is not persisted yet, use Add")
	}
	a.UpdateAuditInfo(shared.ActorFromContext(ctx))
	return u.track(ctx, name, a.ID().String(), b)
}

func (u *UnitOfWork) remove(ctx context.Context, name string, a database.Aggregate, b builder) error {
	if entity.IsNil(a) {
		return shared.NewInvalidArgument(name, name+" is required")
	}
	if a.IsNew() {
		return shared.NewInvalidArgument(name, name+" is not persisted yet")
	}
	a.MarkAsDeleted(shared.ActorFromContext(ctx))
	return u.track(ctx, name, a.ID().String(), b)
}

// =====================================================
// FACTORY
// =====================================================

// Factory hands out units of work over one shared DB and remembers them.
type Factory struct {
	DB *DB

	mu      sync.Mutex
	created []*UnitOfWork
}

func NewFactory() *Factory {
	return &Factory{DB: NewDB()}
}

func (f *Factory) New() persistence.UnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := NewUnitOfWork(f.DB)
	f.created = append(f.created, u)
	return u
}

// Last returns the most recent unit of work, nil when none was created.
func (f *Factory) Last() *UnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}
