package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	bookRepo "pubs-backend/internal/domains/book/repository"
	"pubs-backend/internal/domains/publisher/model"
	"pubs-backend/internal/shared"
	"pubs-backend/pkg/database"
)

const entityName = "publisher"

const (
	publisherColumns = database.AuditColumns + `, name, phone, email, website, ` + database.AddressColumns

	selectPublisherSQL = `SELECT ` + publisherColumns + ` FROM publishers`

	insertPublisherSQL = `
		INSERT INTO publishers (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			name, phone, email, website, street, city, state, postal_code, country
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	updatePublisherSQL = `
		UPDATE publishers
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			name = $6, phone = $7, email = $8, website = $9,
			street = $10, city = $11, state = $12, postal_code = $13, country = $14
		WHERE id = $1 AND version = $15`
)

type postgresRepository struct {
	db database.Tracker
}

func NewPostgresRepository(db database.Tracker) RepositoryInterface {
	return &postgresRepository{db: db}
}

// GetByID returns nil if not found. Books are not loaded.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Publisher, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPublisher(exec.QueryRow(ctx, selectPublisherSQL+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.TranslateContextError(err)
	}
	return p, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]*model.Publisher, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return queryPublishers(ctx, exec, selectPublisherSQL+` WHERE is_deleted = FALSE ORDER BY name`)
}

func (r *postgresRepository) GetPublishersWithBooks(ctx context.Context) ([]*model.Publisher, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	publishers, err := queryPublishers(ctx, exec, selectPublisherSQL+` WHERE is_deleted = FALSE ORDER BY name`)
	if err != nil || len(publishers) == 0 {
		return publishers, err
	}

	ids := make([]uuid.UUID, len(publishers))
	for i, p := range publishers {
		ids[i] = p.ID()
	}

	books, err := bookRepo.LoadByPublisher(ctx, exec, ids)
	if err != nil {
		return nil, err
	}

	for i, p := range publishers {
		publishers[i] = model.RestorePublisher(p.Snapshot(), books[p.ID()])
	}
	return publishers, nil
}

func (r *postgresRepository) Add(ctx context.Context, p *model.Publisher) error {
	return database.TrackAdd(ctx, r.db, entityName, p, writer(p))
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Publisher) error {
	return database.TrackUpdate(ctx, r.db, entityName, p, writer(p))
}

// Delete soft-deletes the publisher; its books are not touched.
func (r *postgresRepository) Delete(ctx context.Context, p *model.Publisher) error {
	return database.TrackDelete(ctx, r.db, entityName, p, writer(p))
}

// writer only writes the publisher row. Books are saved through the book repository.
func writer(p *model.Publisher) database.WriteFunc {
	return func(ctx context.Context, exec database.Executor) (int64, func(), error) {
		s := p.Snapshot()
		fields := database.Args(
			[]any{s.Name, s.Phone, s.Email, s.Website},
			database.AddressValues(s.Address),
		)

		if p.IsNew() {
			n, err := database.ExecInsert(ctx, exec, entityName, insertPublisherSQL,
				database.Args(database.AuditInsertValues(s.Base), fields)...)
			if err != nil {
				return 0, nil, err
			}
			return n, func() { p.AcceptChanges(1) }, nil
		}

		n, err := database.ExecVersioned(ctx, exec, entityName, s.Base.ID, s.Base.Version, updatePublisherSQL,
			database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base), fields, []any{s.Base.Version})...)
		if err != nil {
			return 0, nil, err
		}
		return n, func() { p.AcceptChanges(s.Base.Version + 1) }, nil
	}
}

func queryPublishers(ctx context.Context, exec database.Executor, query string, args ...any) ([]*model.Publisher, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query publishers: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	publishers := make([]*model.Publisher, 0)
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return publishers, nil
}

func scanPublisher(row pgx.Row) (*model.Publisher, error) {
	var (
		s    model.PublisherSnapshot
		addr database.NullAddress
	)

	targets := database.Args(
		database.AuditTargets(&s.Base),
		[]any{&s.Name, &s.Phone, &s.Email, &s.Website},
		addr.Targets(),
	)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan publisher: %w", err)
	}

	s.Address = addr.Address()
	return model.RestorePublisher(s, nil), nil
}
