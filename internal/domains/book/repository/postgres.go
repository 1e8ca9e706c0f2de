package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
	"pubs-backend/pkg/database"
)

const entityName = "book"

const (
	bookColumns = database.AuditColumns + `,
		isbn, title, type, publisher_id, price, price_currency, published_date,
		description, cover_image_url, year_to_date_sales`

	selectBookSQL = `SELECT ` + bookColumns + ` FROM books`

	insertBookSQL = `
		INSERT INTO books (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			isbn, title, type, publisher_id, price, price_currency, published_date,
			description, cover_image_url, year_to_date_sales
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	updateBookSQL = `
		UPDATE books
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			isbn = $6, title = $7, type = $8, publisher_id = $9, price = $10, price_currency = $11,
			published_date = $12, description = $13, cover_image_url = $14, year_to_date_sales = $15
		WHERE id = $1 AND version = $16`
)

// postgresRepository - Raw SQL with pgx, writes go through the unit of work
type postgresRepository struct {
	db database.Tracker
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(db database.Tracker) RepositoryInterface {
	return &postgresRepository{db: db}
}

// =====================================================
// QUERIES
// =====================================================

// GetByID returns the book even when it is soft-deleted.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, selectBookSQL+` WHERE id = $1`, id)
}

func (r *postgresRepository) GetByISBN(ctx context.Context, isbn valueobject.ISBN) (*model.Book, error) {
	return r.getOne(ctx, selectBookSQL+` WHERE isbn = $1`, isbn.Value())
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]*model.Book, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return queryBooks(ctx, exec, selectBookSQL+` WHERE is_deleted = FALSE ORDER BY title`)
}

func (r *postgresRepository) GetBooksWithAuthors(ctx context.Context) ([]*model.Book, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	books, err := queryBooks(ctx, exec, selectBookSQL+` WHERE is_deleted = FALSE ORDER BY title`)
	if err != nil {
		return nil, err
	}
	return attachAuthors(ctx, exec, books)
}

// ========================= SEARCH BOOK =====================
// SearchBooks - ILIKE trên title, description, isbn. Term rỗng trả về mọi sách còn sống.
func (r *postgresRepository) SearchBooks(ctx context.Context, term string) ([]*model.Book, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := buildSearchQuery(term)
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	books, err := queryBooks(ctx, exec, query, args...)
	if err != nil {
		return nil, err
	}
	return attachAuthors(ctx, exec, books)
}

func buildSearchQuery(term string) (string, []any, error) {
	ds := goqu.Dialect("postgres").
		From("books").
		Select(goqu.L(bookColumns)).
		Where(goqu.C("is_deleted").IsFalse()).
		Order(goqu.C("title").Asc())

	term = strings.TrimSpace(term)
	if term != "" {
		pattern := "%" + escapeLike(term) + "%"
		isbnPattern := "%" + escapeLike(strings.NewReplacer("-", "", " ", "").Replace(term)) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("description").ILike(pattern),
			goqu.C("isbn").ILike(isbnPattern),
		))
	}

	return ds.Prepared(true).ToSQL()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*model.Book, error) {
	exec, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	b, err := scanBook(exec.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.TranslateContextError(err)
	}

	books, err := attachAuthors(ctx, exec, []*model.Book{b})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

// =====================================================
// COMMANDS
// =====================================================

func (r *postgresRepository) Add(ctx context.Context, b *model.Book) error {
	return database.TrackAdd(ctx, r.db, entityName, b, writer(b))
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	return database.TrackUpdate(ctx, r.db, entityName, b, writer(b))
}

func (r *postgresRepository) Delete(ctx context.Context, b *model.Book) error {
	return database.TrackDelete(ctx, r.db, entityName, b, writer(b))
}

// writer inserts or updates the book row, then its new or changed author links.
func writer(b *model.Book) database.WriteFunc {
	return func(ctx context.Context, exec database.Executor) (int64, func(), error) {
		s := b.Snapshot()
		fields := []any{
			s.ISBN.Value(), s.Title, string(s.Type), s.PublisherID, s.Price.Amount(), s.Price.Currency(),
			s.PublishedDate, s.Description, s.CoverImageURL, s.YearToDateSales,
		}

		var (
			n    int64
			next int64
			err  error
		)
		if b.IsNew() {
			n, err = database.ExecInsert(ctx, exec, entityName, insertBookSQL,
				database.Args(database.AuditInsertValues(s.Base), fields)...)
			next = 1
		} else {
			n, err = database.ExecVersioned(ctx, exec, entityName, s.Base.ID, s.Base.Version, updateBookSQL,
				database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base), fields, []any{s.Base.Version})...)
			next = s.Base.Version + 1
		}
		if err != nil {
			return 0, nil, err
		}

		linkRows, acceptLinks, err := SaveLinks(ctx, exec, b.BookAuthors())
		if err != nil {
			return 0, nil, err
		}

		return n + linkRows, database.Accepts(func() { b.AcceptChanges(next) }, acceptLinks), nil
	}
}

// =====================================================
// LOADERS (also used by the publisher and sale repositories)
// =====================================================

// LoadByPublisher batch-loads live books with their authors, keyed by publisher id.
func LoadByPublisher(ctx context.Context, exec database.Executor, publisherIDs []uuid.UUID) (map[uuid.UUID][]*model.Book, error) {
	result := make(map[uuid.UUID][]*model.Book, len(publisherIDs))
	if len(publisherIDs) == 0 {
		return result, nil
	}

	books, err := queryBooks(ctx, exec,
		selectBookSQL+` WHERE is_deleted = FALSE AND publisher_id = ANY($1) ORDER BY title`,
		database.UUIDArray(publisherIDs))
	if err != nil {
		return nil, err
	}
	if books, err = attachAuthors(ctx, exec, books); err != nil {
		return nil, err
	}

	for _, b := range books {
		result[b.PublisherID()] = append(result[b.PublisherID()], b)
	}
	return result, nil
}

func queryBooks(ctx context.Context, exec database.Executor, query string, args ...any) ([]*model.Book, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return books, nil
}

// attachAuthors rebuilds books with their live author links.
func attachAuthors(ctx context.Context, exec database.Executor, books []*model.Book) ([]*model.Book, error) {
	if len(books) == 0 {
		return books, nil
	}

	ids := make([]uuid.UUID, len(books))
	for i, b := range books {
		ids[i] = b.ID()
	}

	links, err := LoadLinks(ctx, exec, ByBook, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Book, len(books))
	for i, b := range books {
		out[i] = model.RestoreBook(b.Snapshot(), links[b.ID()])
	}
	return out, nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var (
		s        model.BookSnapshot
		isbn     string
		bookType string
		price    decimal.Decimal
		currency string
	)

	targets := append(database.AuditTargets(&s.Base),
		&isbn, &s.Title, &bookType, &s.PublisherID, &price, &currency, &s.PublishedDate,
		&s.Description, &s.CoverImageURL, &s.YearToDateSales)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	var err error
	if s.ISBN, err = valueobject.NewISBN(isbn); err != nil {
		return nil, fmt.Errorf("book %s has a corrupt isbn: %w", s.Base.ID, err)
	}
	if s.Price, err = valueobject.NewMoney(price, currency); err != nil {
		return nil, fmt.Errorf("book %s has a corrupt price: %w", s.Base.ID, err)
	}
	s.Type = model.BookType(bookType)

	return model.RestoreBook(s, nil), nil
}
