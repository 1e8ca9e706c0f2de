package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pubs-backend/internal/domains/author/model"
	bookRepo "pubs-backend/internal/domains/book/repository"
	"pubs-backend/internal/shared"
	"pubs-backend/pkg/database"
)

const entityName = "author"

const (
	authorColumns = database.AuditColumns + `,
		first_name, last_name, email, phone, ` + database.AddressColumns + `, biography, contract_status`

	selectAuthorSQL = `SELECT ` + authorColumns + ` FROM authors`

	insertAuthorSQL = `
		INSERT INTO authors (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			first_name, last_name, email, phone, street, city, state, postal_code, country,
			biography, contract_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	updateAuthorSQL = `
		UPDATE authors
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			first_name = $6, last_name = $7, email = $8, phone = $9,
			street = $10, city = $11, state = $12, postal_code = $13, country = $14,
			biography = $15, contract_status = $16
		WHERE id = $1 AND version = $17`
)

// postgresRepository implements RepositoryInterface on top of a unit of work session
type postgresRepository struct {
	db database.Tracker
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(db database.Tracker) RepositoryInterface {
	return &postgresRepository{db: db}
}

// GetByID retrieves author by UUID, soft-deleted ones included
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return r.getOne(ctx, selectAuthorSQL+` WHERE id = $1`, id)
}

// GetByEmail retrieves a live author by email
func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	return r.getOne(ctx, selectAuthorSQL+` WHERE LOWER(email) = LOWER($1) AND is_deleted = FALSE`, email)
}

// GetAll retrieves live authors without their links
func (r *postgresRepository) GetAll(ctx context.Context) ([]*model.Author, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return queryAuthors(ctx, exec, selectAuthorSQL+` WHERE is_deleted = FALSE ORDER BY last_name, first_name`)
}

func (r *postgresRepository) GetAuthorsWithBooks(ctx context.Context) ([]*model.Author, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := queryAuthors(ctx, exec, selectAuthorSQL+` WHERE is_deleted = FALSE ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	return attachBooks(ctx, exec, authors)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*model.Author, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	a, err := scanAuthor(exec.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.TranslateContextError(err)
	}

	authors, err := attachBooks(ctx, exec, []*model.Author{a})
	if err != nil {
		return nil, err
	}
	return authors[0], nil
}

// Add queues an insert of the author and its links
func (r *postgresRepository) Add(ctx context.Context, a *model.Author) error {
	return database.TrackAdd(ctx, r.db, entityName, a, writer(a))
}

// Update queues a versioned update; a stale version fails at SaveChanges
func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	return database.TrackUpdate(ctx, r.db, entityName, a, writer(a))
}

// Delete soft-deletes the author. Book links stay in place and are filtered on read.
func (r *postgresRepository) Delete(ctx context.Context, a *model.Author) error {
	return database.TrackDelete(ctx, r.db, entityName, a, writer(a))
}

func writer(a *model.Author) database.WriteFunc {
	return func(ctx context.Context, exec database.Executor) (int64, func(), error) {
		s := a.Snapshot()
		fields := database.Args(
			[]any{s.FirstName, s.LastName, s.Email, s.Phone},
			database.AddressValues(s.Address),
			[]any{s.Biography, string(s.ContractStatus)},
		)

		var (
			n    int64
			next int64
			err  error
		)
		if a.IsNew() {
			n, err = database.ExecInsert(ctx, exec, entityName, insertAuthorSQL,
				database.Args(database.AuditInsertValues(s.Base), fields)...)
			next = 1
		} else {
			n, err = database.ExecVersioned(ctx, exec, entityName, s.Base.ID, s.Base.Version, updateAuthorSQL,
				database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base), fields, []any{s.Base.Version})...)
			next = s.Base.Version + 1
		}
		if err != nil {
			return 0, nil, err
		}

		linkRows, acceptLinks, err := bookRepo.SaveLinks(ctx, exec, a.BookAuthors())
		if err != nil {
			return 0, nil, err
		}

		return n + linkRows, database.Accepts(func() { a.AcceptChanges(next) }, acceptLinks), nil
	}
}

func queryAuthors(ctx context.Context, exec database.Executor, query string, args ...any) ([]*model.Author, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	authors := make([]*model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return authors, nil
}

func attachBooks(ctx context.Context, exec database.Executor, authors []*model.Author) ([]*model.Author, error) {
	if len(authors) == 0 {
		return authors, nil
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID()
	}

	links, err := bookRepo.LoadLinks(ctx, exec, bookRepo.ByAuthor, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Author, len(authors))
	for i, a := range authors {
		out[i] = model.RestoreAuthor(a.Snapshot(), links[a.ID()])
	}
	return out, nil
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var (
		s      model.AuthorSnapshot
		addr   database.NullAddress
		status string
	)

	targets := database.Args(
		database.AuditTargets(&s.Base),
		[]any{&s.FirstName, &s.LastName, &s.Email, &s.Phone},
		addr.Targets(),
		[]any{&s.Biography, &status},
	)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan author: %w", err)
	}

	s.Address = addr.Address()
	s.ContractStatus = model.ContractStatus(status)
	return model.RestoreAuthor(s, nil), nil
}
