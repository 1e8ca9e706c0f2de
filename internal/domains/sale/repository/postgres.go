package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pubs-backend/internal/domains/sale/model"
	"pubs-backend/internal/shared"
	"pubs-backend/pkg/database"
)

const entityName = "sale"

const (
	saleColumns = database.AuditColumns + `, order_number, store_id, order_date, status, notes`

	selectSaleSQL = `SELECT ` + saleColumns + ` FROM sales`

	insertSaleSQL = `
		INSERT INTO sales (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			order_number, store_id, order_date, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12)`

	updateSaleSQL = `
		UPDATE sales
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			order_number = $6, store_id = $7, order_date = $8, status = $9, notes = $10
		WHERE id = $1 AND version = $11`

	saleItemColumns = `si.id, si.created_at, si.updated_at, si.created_by, si.updated_by, si.is_deleted, si.deleted_at, si.version,
		si.sale_id, si.book_id, si.quantity, si.unit_price, si.discount`

	insertSaleItemSQL = `
		INSERT INTO sale_items (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			sale_id, book_id, quantity, unit_price, discount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12)`

	updateSaleItemSQL = `
		UPDATE sale_items
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			quantity = $6, unit_price = $7, discount = $8
		WHERE id = $1 AND version = $9`
)

type postgresRepository struct {
	db database.Tracker
}

func NewPostgresRepository(db database.Tracker) RepositoryInterface {
	return &postgresRepository{db: db}
}

// GetByID returns the sale with its items, soft-deleted sales included.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanSale(exec.QueryRow(ctx, selectSaleSQL+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.TranslateContextError(err)
	}

	sales, err := attachItems(ctx, exec, []*model.Sale{s})
	if err != nil {
		return nil, err
	}
	return sales[0], nil
}

// GetAll returns live sales without items.
func (r *postgresRepository) GetAll(ctx context.Context) ([]*model.Sale, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return querySales(ctx, exec, selectSaleSQL+` WHERE is_deleted = FALSE ORDER BY order_date DESC`)
}

func (r *postgresRepository) GetSalesWithItems(ctx context.Context) ([]*model.Sale, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := querySales(ctx, exec, selectSaleSQL+` WHERE is_deleted = FALSE ORDER BY order_date DESC`)
	if err != nil {
		return nil, err
	}
	return attachItems(ctx, exec, sales)
}

func (r *postgresRepository) GetSalesByStore(ctx context.Context, storeID uuid.UUID) ([]*model.Sale, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	byStore, err := LoadByStore(ctx, exec, []uuid.UUID{storeID})
	if err != nil {
		return nil, err
	}
	if sales := byStore[storeID]; sales != nil {
		return sales, nil
	}
	return []*model.Sale{}, nil
}

func (r *postgresRepository) Add(ctx context.Context, s *model.Sale) error {
	return database.TrackAdd(ctx, r.db, entityName, s, writer(s))
}

func (r *postgresRepository) Update(ctx context.Context, s *model.Sale) error {
	return database.TrackUpdate(ctx, r.db, entityName, s, writer(s))
}

// Delete soft-deletes the sale; items keep their own state.
func (r *postgresRepository) Delete(ctx context.Context, s *model.Sale) error {
	return database.TrackDelete(ctx, r.db, entityName, s, writer(s))
}

// writer writes the sale row, then new or changed items.
func writer(sale *model.Sale) database.WriteFunc {
	return func(ctx context.Context, exec database.Executor) (int64, func(), error) {
		s := sale.Snapshot()
		fields := []any{s.OrderNumber, s.StoreID, s.OrderDate, string(s.Status), s.Notes}

		var (
			n    int64
			next int64
			err  error
		)
		if sale.IsNew() {
			n, err = database.ExecInsert(ctx, exec, entityName, insertSaleSQL,
				database.Args(database.AuditInsertValues(s.Base), fields)...)
			next = 1
		} else {
			n, err = database.ExecVersioned(ctx, exec, entityName, s.Base.ID, s.Base.Version, updateSaleSQL,
				database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base), fields, []any{s.Base.Version})...)
			next = s.Base.Version + 1
		}
		if err != nil {
			return 0, nil, err
		}

		itemRows, acceptItems, err := saveItems(ctx, exec, sale.Items())
		if err != nil {
			return 0, nil, err
		}

		return n + itemRows, database.Accepts(func() { sale.AcceptChanges(next) }, acceptItems), nil
	}
}

func saveItems(ctx context.Context, exec database.Executor, items []*model.SaleItem) (int64, func(), error) {
	actor := shared.ActorFromContext(ctx)

	var (
		total   int64
		accepts []func()
	)
	for _, item := range items {
		if !item.HasChanges() {
			continue
		}

		var (
			n    int64
			next int64
			err  error
		)
		if item.IsNew() {
			item.AssignCreator(actor)
			s := item.Snapshot()
			n, err = database.ExecInsert(ctx, exec, "sale item", insertSaleItemSQL,
				database.Args(database.AuditInsertValues(s.Base),
					[]any{s.SaleID, s.BookID, s.Quantity, s.UnitPrice, s.Discount})...)
			next = 1
		} else {
			item.UpdateAuditInfo(actor)
			s := item.Snapshot()
			n, err = database.ExecVersioned(ctx, exec, "sale item", s.Base.ID, s.Base.Version, updateSaleItemSQL,
				database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base),
					[]any{s.Quantity, s.UnitPrice, s.Discount, s.Base.Version})...)
			next = s.Base.Version + 1
		}
		if err != nil {
			return 0, nil, err
		}

		total += n
		it := item
		accepts = append(accepts, func() { it.AcceptChanges(next) })
	}

	return total, database.Accepts(accepts...), nil
}

// LoadByStore batch-loads live sales with items, keyed by store id. Used by
// the store repository.
func LoadByStore(ctx context.Context, exec database.Executor, storeIDs []uuid.UUID) (map[uuid.UUID][]*model.Sale, error) {
	result := make(map[uuid.UUID][]*model.Sale, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	sales, err := querySales(ctx, exec,
		selectSaleSQL+` WHERE is_deleted = FALSE AND store_id = ANY($1) ORDER BY order_date DESC`,
		database.UUIDArray(storeIDs))
	if err != nil {
		return nil, err
	}
	if sales, err = attachItems(ctx, exec, sales); err != nil {
		return nil, err
	}

	for _, s := range sales {
		result[s.StoreID()] = append(result[s.StoreID()], s)
	}
	return result, nil
}

func querySales(ctx context.Context, exec database.Executor, query string, args ...any) ([]*model.Sale, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	sales := make([]*model.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return sales, nil
}

// attachItems loads live items whose sale is live.
func attachItems(ctx context.Context, exec database.Executor, sales []*model.Sale) ([]*model.Sale, error) {
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]uuid.UUID, len(sales))
	for i, s := range sales {
		ids[i] = s.ID()
	}

	rows, err := exec.Query(ctx, `
		SELECT `+saleItemColumns+`
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id AND s.is_deleted = FALSE
		WHERE si.is_deleted = FALSE AND si.sale_id = ANY($1)
		ORDER BY si.created_at`, database.UUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*model.SaleItem, len(sales))
	for rows.Next() {
		var s model.SaleItemSnapshot
		targets := append(database.AuditTargets(&s.Base), &s.SaleID, &s.BookID, &s.Quantity, &s.UnitPrice, &s.Discount)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items[s.SaleID] = append(items[s.SaleID], model.RestoreSaleItem(s))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	out := make([]*model.Sale, len(sales))
	for i, s := range sales {
		out[i] = model.RestoreSale(s.Snapshot(), items[s.ID()])
	}
	return out, nil
}

func scanSale(row pgx.Row) (*model.Sale, error) {
	var (
		s      model.SaleSnapshot
		status string
	)

	targets := append(database.AuditTargets(&s.Base), &s.OrderNumber, &s.StoreID, &s.OrderDate, &status, &s.Notes)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan sale: %w", err)
	}

	s.Status = model.OrderStatus(status)
	return model.RestoreSale(s, nil), nil
}
