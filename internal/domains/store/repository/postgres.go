package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	saleRepo "pubs-backend/internal/domains/sale/repository"
	"pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/shared"
	"pubs-backend/pkg/database"
)

const entityName = "store"

const (
	storeColumns = database.AuditColumns + `, name, phone, email, ` + database.AddressColumns

	selectStoreSQL = `SELECT ` + storeColumns + ` FROM stores`

	insertStoreSQL = `
		INSERT INTO stores (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			name, phone, email, street, city, state, postal_code, country
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12, $13, $14, $15)`

	updateStoreSQL = `
		UPDATE stores
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			name = $6, phone = $7, email = $8,
			street = $9, city = $10, state = $11, postal_code = $12, country = $13
		WHERE id = $1 AND version = $14`
)

type postgresRepository struct {
	db database.Tracker
}

func NewPostgresRepository(db database.Tracker) RepositoryInterface {
	return &postgresRepository{db: db}
}

// GetByID returns nil if not found. Sales are not loaded.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanStore(exec.QueryRow(ctx, selectStoreSQL+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.TranslateContextError(err)
	}
	return s, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]*model.Store, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return queryStores(ctx, exec, selectStoreSQL+` WHERE is_deleted = FALSE ORDER BY name`)
}

func (r *postgresRepository) GetStoresWithSales(ctx context.Context) ([]*model.Store, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	stores, err := queryStores(ctx, exec, selectStoreSQL+` WHERE is_deleted = FALSE ORDER BY name`)
	if err != nil || len(stores) == 0 {
		return stores, err
	}

	ids := make([]uuid.UUID, len(stores))
	for i, s := range stores {
		ids[i] = s.ID()
	}

	sales, err := saleRepo.LoadByStore(ctx, exec, ids)
	if err != nil {
		return nil, err
	}

	for i, s := range stores {
		stores[i] = model.RestoreStore(s.Snapshot(), sales[s.ID()])
	}
	return stores, nil
}

func (r *postgresRepository) Add(ctx context.Context, s *model.Store) error {
	return database.TrackAdd(ctx, r.db, entityName, s, writer(s))
}

func (r *postgresRepository) Update(ctx context.Context, s *model.Store) error {
	return database.TrackUpdate(ctx, r.db, entityName, s, writer(s))
}

// Delete soft-deletes the store; its sales are not touched.
func (r *postgresRepository) Delete(ctx context.Context, s *model.Store) error {
	return database.TrackDelete(ctx, r.db, entityName, s, writer(s))
}

// writer only writes the store row. Sales are saved through the sale repository.
func writer(store *model.Store) database.WriteFunc {
	return func(ctx context.Context, exec database.Executor) (int64, func(), error) {
		s := store.Snapshot()
		fields := database.Args([]any{s.Name, s.Phone, s.Email}, database.AddressValues(s.Address))

		if store.IsNew() {
			n, err := database.ExecInsert(ctx, exec, entityName, insertStoreSQL,
				database.Args(database.AuditInsertValues(s.Base), fields)...)
			if err != nil {
				return 0, nil, err
			}
			return n, func() { store.AcceptChanges(1) }, nil
		}

		n, err := database.ExecVersioned(ctx, exec, entityName, s.Base.ID, s.Base.Version, updateStoreSQL,
			database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base), fields, []any{s.Base.Version})...)
		if err != nil {
			return 0, nil, err
		}
		return n, func() { store.AcceptChanges(s.Base.Version + 1) }, nil
	}
}

func queryStores(ctx context.Context, exec database.Executor, query string, args ...any) ([]*model.Store, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	stores := make([]*model.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return stores, nil
}

func scanStore(row pgx.Row) (*model.Store, error) {
	var (
		s    model.StoreSnapshot
		addr database.NullAddress
	)

	targets := database.Args(database.AuditTargets(&s.Base), []any{&s.Name, &s.Phone, &s.Email}, addr.Targets())
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan store: %w", err)
	}

	s.Address = addr.Address()
	return model.RestoreStore(s, nil), nil
}
