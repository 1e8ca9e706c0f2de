// Package persistencetest cung cấp Unit of Work in-memory cho unit test của
// services. Hành vi bám theo bản Postgres: optimistic locking theo version,
// soft delete, audit từ actor trong context và lọc link của parent đã xoá.
package persistencetest

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	authorModel "pubs-backend/internal/domains/author/model"
	bookModel "pubs-backend/internal/domains/book/model"
	publisherModel "pubs-backend/internal/domains/publisher/model"
	saleModel "pubs-backend/internal/domains/sale/model"
	storeModel "pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
)

// tables is one immutable version of the store. Writers clone, apply and swap.
type tables struct {
	authors    map[uuid.UUID]authorModel.AuthorSnapshot
	books      map[uuid.UUID]bookModel.BookSnapshot
	links      map[uuid.UUID]bookModel.BookAuthorSnapshot
	publishers map[uuid.UUID]publisherModel.PublisherSnapshot
	stores     map[uuid.UUID]storeModel.StoreSnapshot
	sales      map[uuid.UUID]saleModel.SaleSnapshot
	items      map[uuid.UUID]saleModel.SaleItemSnapshot
}

func newTables() *tables {
	return &tables{
		authors:    make(map[uuid.UUID]authorModel.AuthorSnapshot),
		books:      make(map[uuid.UUID]bookModel.BookSnapshot),
		links:      make(map[uuid.UUID]bookModel.BookAuthorSnapshot),
		publishers: make(map[uuid.UUID]publisherModel.PublisherSnapshot),
		stores:     make(map[uuid.UUID]storeModel.StoreSnapshot),
		sales:      make(map[uuid.UUID]saleModel.SaleSnapshot),
		items:      make(map[uuid.UUID]saleModel.SaleItemSnapshot),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		authors:    maps.Clone(t.authors),
		books:      maps.Clone(t.books),
		links:      maps.Clone(t.links),
		publishers: maps.Clone(t.publishers),
		stores:     maps.Clone(t.stores),
		sales:      maps.Clone(t.sales),
		items:      maps.Clone(t.items),
	}
}

// rowWrite is one INSERT or versioned UPDATE. It captures a snapshot, so it
// can be replayed against a newer state on commit.
type rowWrite func(t *tables) (int64, error)

// =====================================================
// DB
// =====================================================

// DB is the state shared by every UnitOfWork of one Factory.
type DB struct {
	mu       sync.Mutex
	data     *tables
	failures []error
}

func NewDB() *DB {
	return &DB{data: newTables()}
}

// FailNextSave makes the next SaveChanges or Commit return err without
// writing anything. Calls queue up.
func (db *DB) FailNextSave(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failures = append(db.failures, err)
}

func (db *DB) current() *tables {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.data
}

func (db *DB) takeFailure() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.failures) == 0 {
		return nil
	}
	err := db.failures[0]
	db.failures = db.failures[1:]
	return err
}

// apply runs writes atomically against the latest state.
func (db *DB) apply(writes []rowWrite) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	next := db.data.clone()
	n, err := run(next, writes)
	if err != nil {
		return 0, err
	}
	db.data = next
	return n, nil
}

func run(t *tables, writes []rowWrite) (int64, error) {
	var total int64
	for _, w := range writes {
		n, err := w(t)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// =====================================================
// ROW WRITES
// =====================================================

func upsert[S any](m map[uuid.UUID]S, name string, snap S, base func(*S) *entity.Snapshot) (int64, error) {
	b := base(&snap)
	if b.Version == 0 {
		if _, ok := m[b.ID]; ok {
			return 0, fmt.Errorf("failed to insert %s: duplicate key %s", name, b.ID)
		}
		b.Version = 1
		m[b.ID] = snap
		return 1, nil
	}

	cur, ok := m[b.ID]
	if !ok || base(&cur).Version != b.Version {
		return 0, shared.NewConcurrencyConflict(name, b.ID, b.Version)
	}
	b.Version++
	m[b.ID] = snap
	return 1, nil
}

// upsertLink rejects a second row for the same (book_id, author_id) pair, the
// way the postgres repository turns a skipped insert into InvalidArgument.
func upsertLink(t *tables, s bookModel.BookAuthorSnapshot) (int64, error) {
	if s.Base.Version == 0 {
		for _, l := range t.links {
			if l.BookID == s.BookID && l.AuthorID == s.AuthorID {
				return 0, shared.NewInvalidArgument("authorId", "author is already linked to this book")
			}
		}
	}
	return upsert(t.links, "book author", s, linkBase)
}

func authorBase(s *authorModel.AuthorSnapshot) *entity.Snapshot          { return &s.Base }
func bookBase(s *bookModel.BookSnapshot) *entity.Snapshot                { return &s.Base }
func linkBase(s *bookModel.BookAuthorSnapshot) *entity.Snapshot          { return &s.Base }
func publisherBase(s *publisherModel.PublisherSnapshot) *entity.Snapshot { return &s.Base }
func storeBase(s *storeModel.StoreSnapshot) *entity.Snapshot             { return &s.Base }
func saleBase(s *saleModel.SaleSnapshot) *entity.Snapshot                { return &s.Base }
func itemBase(s *saleModel.SaleItemSnapshot) *entity.Snapshot            { return &s.Base }

// =====================================================
// LOADERS
// =====================================================

// live returns rows that are not soft-deleted and match keep.
func live[S any](m map[uuid.UUID]S, base func(*S) *entity.Snapshot, keep func(S) bool) []S {
	out := make([]S, 0)
	for _, s := range m {
		if base(&s).IsDeleted {
			continue
		}
		if keep != nil && !keep(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// liveLinks skips links whose book or author is soft-deleted.
func (t *tables) liveLinks(keep func(bookModel.BookAuthorSnapshot) bool) []*bookModel.BookAuthor {
	snaps := live(t.links, linkBase, func(l bookModel.BookAuthorSnapshot) bool {
		if b, ok := t.books[l.BookID]; !ok || b.Base.IsDeleted {
			return false
		}
		if a, ok := t.authors[l.AuthorID]; !ok || a.Base.IsDeleted {
			return false
		}
		return keep(l)
	})
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].AuthorOrder != snaps[j].AuthorOrder {
			return snaps[i].AuthorOrder < snaps[j].AuthorOrder
		}
		return snaps[i].Base.CreatedAt.Before(snaps[j].Base.CreatedAt)
	})

	out := make([]*bookModel.BookAuthor, len(snaps))
	for i, s := range snaps {
		out[i] = bookModel.RestoreBookAuthor(s)
	}
	return out
}

func (t *tables) author(s authorModel.AuthorSnapshot) *authorModel.Author {
	return authorModel.RestoreAuthor(s, t.liveLinks(func(l bookModel.BookAuthorSnapshot) bool {
		return l.AuthorID == s.Base.ID
	}))
}

func (t *tables) book(s bookModel.BookSnapshot) *bookModel.Book {
	return bookModel.RestoreBook(s, t.liveLinks(func(l bookModel.BookAuthorSnapshot) bool {
		return l.BookID == s.Base.ID
	}))
}

func (t *tables) sale(s saleModel.SaleSnapshot) *saleModel.Sale {
	snaps := live(t.items, itemBase, func(i saleModel.SaleItemSnapshot) bool { return i.SaleID == s.Base.ID })
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Base.CreatedAt.Before(snaps[j].Base.CreatedAt) })

	items := make([]*saleModel.SaleItem, len(snaps))
	for i, it := range snaps {
		items[i] = saleModel.RestoreSaleItem(it)
	}
	return saleModel.RestoreSale(s, items)
}

func (t *tables) liveAuthors() []authorModel.AuthorSnapshot {
	snaps := live(t.authors, authorBase, nil)
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].LastName != snaps[j].LastName {
			return snaps[i].LastName < snaps[j].LastName
		}
		return snaps[i].FirstName < snaps[j].FirstName
	})
	return snaps
}

func (t *tables) liveBooks(keep func(bookModel.BookSnapshot) bool) []bookModel.BookSnapshot {
	snaps := live(t.books, bookBase, keep)
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Title < snaps[j].Title })
	return snaps
}

func (t *tables) liveSales(keep func(saleModel.SaleSnapshot) bool) []saleModel.SaleSnapshot {
	snaps := live(t.sales, saleBase, keep)
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].OrderDate.After(snaps[j].OrderDate) })
	return snaps
}

func containsFold(s *string, term string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), term)
}
