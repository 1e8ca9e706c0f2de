package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/pkg/database"
)

// LinkKey chọn cột dùng để gom BookAuthor khi batch load.
type LinkKey string

const (
	ByBook   LinkKey = "book_id"
	ByAuthor LinkKey = "author_id"
)

const (
	// Conflict trên (book_id, author_id) không ghi gì; SaveLinks coi 0 rows là lỗi.
	insertBookAuthorSQL = `
		INSERT INTO book_authors (
			id, created_at, updated_at, created_by, updated_by, is_deleted, deleted_at, version,
			book_id, author_id, author_order, royalty_percentage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10, $11)
		ON CONFLICT (book_id, author_id) DO NOTHING`

	updateBookAuthorSQL = `
		UPDATE book_authors
		SET updated_at = $2, updated_by = $3, is_deleted = $4, deleted_at = $5, version = version + 1,
			author_order = $6, royalty_percentage = $7
		WHERE id = $1 AND version = $8`

	// Links whose book or author is soft-deleted are not returned.
	selectLiveLinksSQL = `
		SELECT ba.id, ba.created_at, ba.updated_at, ba.created_by, ba.updated_by, ba.is_deleted, ba.deleted_at, ba.version,
			ba.book_id, ba.author_id, ba.author_order, ba.royalty_percentage
		FROM book_authors ba
		JOIN books b ON b.id = ba.book_id AND b.is_deleted = FALSE
		JOIN authors a ON a.id = ba.author_id AND a.is_deleted = FALSE
		WHERE ba.is_deleted = FALSE AND ba.%s = ANY($1)
		ORDER BY ba.author_order, ba.created_at`
)

// SaveLinks writes links that are new or changed since they were loaded. It is
// shared by the book and author repositories so both sides persist links the
// same way. A new link whose pair already has a row fails with
// InvalidArgument. The returned func accepts the written links.
func SaveLinks(ctx context.Context, exec database.Executor, links []*model.BookAuthor) (int64, func(), error) {
	actor := shared.ActorFromContext(ctx)

	var (
		total   int64
		accepts []func()
	)
	for _, link := range links {
		if !link.HasChanges() {
			continue
		}

		var (
			n    int64
			next int64
			err  error
		)
		if link.IsNew() {
			link.AssignCreator(actor)
			s := link.Snapshot()
			n, err = database.ExecInsert(ctx, exec, "book author", insertBookAuthorSQL,
				database.Args(database.AuditInsertValues(s.Base),
					[]any{s.BookID, s.AuthorID, s.AuthorOrder, s.RoyaltyPercentage})...)
			if err == nil && n == 0 {
				err = errAlreadyLinked(s.BookID, s.AuthorID)
			}
			next = 1
		} else {
			link.UpdateAuditInfo(actor)
			s := link.Snapshot()
			n, err = database.ExecVersioned(ctx, exec, "book author", s.Base.ID, s.Base.Version, updateBookAuthorSQL,
				database.Args([]any{s.Base.ID}, database.AuditUpdateValues(s.Base),
					[]any{s.AuthorOrder, s.RoyaltyPercentage, s.Base.Version})...)
			next = s.Base.Version + 1
		}
		if err != nil {
			return 0, nil, err
		}

		total += n
		l := link
		accepts = append(accepts, func() { l.AcceptChanges(next) })
	}

	return total, database.Accepts(accepts...), nil
}

// errAlreadyLinked covers a pair linked twice in one unit of work (once from
// each side) and a pair whose earlier link row was removed.
func errAlreadyLinked(bookID, authorID uuid.UUID) error {
	return shared.NewInvalidArgument("authorId",
		fmt.Sprintf("author %s is already linked to book %s", authorID, bookID))
}

// LoadLinks batch-loads live links for the given book or author ids.
func LoadLinks(ctx context.Context, exec database.Executor, key LinkKey, ids []uuid.UUID) (map[uuid.UUID][]*model.BookAuthor, error) {
	result := make(map[uuid.UUID][]*model.BookAuthor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := exec.Query(ctx, fmt.Sprintf(selectLiveLinksSQL, key), database.UUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load book authors: %w", shared.TranslateContextError(err))
	}
	defer rows.Close()

	for rows.Next() {
		link, err := scanBookAuthor(rows)
		if err != nil {
			return nil, err
		}
		owner := link.BookID()
		if key == ByAuthor {
			owner = link.AuthorID()
		}
		result[owner] = append(result[owner], link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", shared.TranslateContextError(err))
	}

	return result, nil
}

func scanBookAuthor(row pgx.Row) (*model.BookAuthor, error) {
	var s model.BookAuthorSnapshot
	targets := append(database.AuditTargets(&s.Base), &s.BookID, &s.AuthorID, &s.AuthorOrder, &s.RoyaltyPercentage)
	if err := row.Scan(targets...); err != nil {
		return nil, fmt.Errorf("failed to scan book author: %w", err)
	}
	return model.RestoreBookAuthor(s), nil
}
