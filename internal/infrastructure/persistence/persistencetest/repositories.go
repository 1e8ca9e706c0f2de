package persistencetest

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	authorModel "pubs-backend/internal/domains/author/model"
	bookModel "pubs-backend/internal/domains/book/model"
	publisherModel "pubs-backend/internal/domains/publisher/model"
	saleModel "pubs-backend/internal/domains/sale/model"
	storeModel "pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
	"pubs-backend/pkg/database"
)

// =====================================================
// WRITERS
// =====================================================

func linkWrites(ctx context.Context, links []*bookModel.BookAuthor) ([]rowWrite, func()) {
	actor := shared.ActorFromContext(ctx)

	var (
		writes  []rowWrite
		accepts []func()
	)
	for _, link := range links {
		if !link.HasChanges() {
			continue
		}
		if link.IsNew() {
			link.AssignCreator(actor)
		} else {
			link.UpdateAuditInfo(actor)
		}
		s := link.Snapshot()
		l := link
		writes = append(writes, func(t *tables) (int64, error) { return upsertLink(t, s) })
		accepts = append(accepts, func() { l.AcceptChanges(s.Base.Version + 1) })
	}
	return writes, database.Accepts(accepts...)
}

func authorWriter(a *authorModel.Author) builder {
	return func(ctx context.Context) ([]rowWrite, func()) {
		s := a.Snapshot()
		writes := []rowWrite{func(t *tables) (int64, error) { return upsert(t.authors, "author", s, authorBase) }}
		links, acceptLinks := linkWrites(ctx, a.BookAuthors())
		return append(writes, links...), database.Accepts(func() { a.AcceptChanges(s.Base.Version + 1) }, acceptLinks)
	}
}

func bookWriter(b *bookModel.Book) builder {
	return func(ctx context.Context) ([]rowWrite, func()) {
		s := b.Snapshot()
		writes := []rowWrite{func(t *tables) (int64, error) { return upsert(t.books, "book", s, bookBase) }}
		links, acceptLinks := linkWrites(ctx, b.BookAuthors())
		return append(writes, links...), database.Accepts(func() { b.AcceptChanges(s.Base.Version + 1) }, acceptLinks)
	}
}

func publisherWriter(p *publisherModel.Publisher) builder {
	return func(ctx context.Context) ([]rowWrite, func()) {
		s := p.Snapshot()
		return []rowWrite{func(t *tables) (int64, error) { return upsert(t.publishers, "publisher", s, publisherBase) }},
			func() { p.AcceptChanges(s.Base.Version + 1) }
	}
}

func storeWriter(st *storeModel.Store) builder {
	return func(ctx context.Context) ([]rowWrite, func()) {
		s := st.Snapshot()
		return []rowWrite{func(t *tables) (int64, error) { return upsert(t.stores, "store", s, storeBase) }},
			func() { st.AcceptChanges(s.Base.Version + 1) }
	}
}

func saleWriter(sale *saleModel.Sale) builder {
	return func(ctx context.Context) ([]rowWrite, func()) {
		actor := shared.ActorFromContext(ctx)
		s := sale.Snapshot()
		writes := []rowWrite{func(t *tables) (int64, error) { return upsert(t.sales, "sale", s, saleBase) }}
		accepts := []func(){func() { sale.AcceptChanges(s.Base.Version + 1) }}

		for _, item := range sale.Items() {
			if !item.HasChanges() {
				continue
			}
			if item.IsNew() {
				item.AssignCreator(actor)
			} else {
				item.UpdateAuditInfo(actor)
			}
			is := item.Snapshot()
			it := item
			writes = append(writes, func(t *tables) (int64, error) { return upsert(t.items, "sale item", is, itemBase) })
			accepts = append(accepts, func() { it.AcceptChanges(is.Base.Version + 1) })
		}
		return writes, database.Accepts(accepts...)
	}
}

// =====================================================
// AUTHORS
// =====================================================

type authorRepository struct{ u *UnitOfWork }

func (r *authorRepository) GetByID(ctx context.Context, id uuid.UUID) (*authorModel.Author, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.authors[id]
	if !ok {
		return nil, nil
	}
	return t.author(s), nil
}

func (r *authorRepository) GetAll(ctx context.Context) ([]*authorModel.Author, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*authorModel.Author, 0)
	for _, s := range t.liveAuthors() {
		out = append(out, authorModel.RestoreAuthor(s, nil))
	}
	return out, nil
}

func (r *authorRepository) GetAuthorsWithBooks(ctx context.Context) ([]*authorModel.Author, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*authorModel.Author, 0)
	for _, s := range t.liveAuthors() {
		out = append(out, t.author(s))
	}
	return out, nil
}

func (r *authorRepository) GetByEmail(ctx context.Context, email string) (*authorModel.Author, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range t.liveAuthors() {
		if strings.EqualFold(s.Email, strings.TrimSpace(email)) {
			return t.author(s), nil
		}
	}
	return nil, nil
}

func (r *authorRepository) Add(ctx context.Context, a *authorModel.Author) error {
	return r.u.add(ctx, "author", a, authorWriter(a))
}

func (r *authorRepository) Update(ctx context.Context, a *authorModel.Author) error {
	return r.u.update(ctx, "author", a, authorWriter(a))
}

func (r *authorRepository) Delete(ctx context.Context, a *authorModel.Author) error {
	return r.u.remove(ctx, "author", a, authorWriter(a))
}

// =====================================================
// BOOKS
// =====================================================

type bookRepository struct{ u *UnitOfWork }

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.books[id]
	if !ok {
		return nil, nil
	}
	return t.book(s), nil
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn valueobject.ISBN) (*bookModel.Book, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range t.books {
		if s.ISBN.Value() == isbn.Value() {
			return t.book(s), nil
		}
	}
	return nil, nil
}

func (r *bookRepository) GetAll(ctx context.Context) ([]*bookModel.Book, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*bookModel.Book, 0)
	for _, s := range t.liveBooks(nil) {
		out = append(out, bookModel.RestoreBook(s, nil))
	}
	return out, nil
}

func (r *bookRepository) GetBooksWithAuthors(ctx context.Context) ([]*bookModel.Book, error) {
	return r.search(ctx, nil)
}

// SearchBooks: blank term returns every live book.
func (r *bookRepository) SearchBooks(ctx context.Context, term string) ([]*bookModel.Book, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return r.search(ctx, nil)
	}

	isbnTerm := strings.NewReplacer("-", "", " ", "").Replace(term)
	return r.search(ctx, func(s bookModel.BookSnapshot) bool {
		return strings.Contains(strings.ToLower(s.Title), term) ||
			containsFold(s.Description, term) ||
			strings.Contains(strings.ToLower(s.ISBN.Value()), isbnTerm)
	})
}

func (r *bookRepository) search(ctx context.Context, keep func(bookModel.BookSnapshot) bool) ([]*bookModel.Book, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*bookModel.Book, 0)
	for _, s := range t.liveBooks(keep) {
		out = append(out, t.book(s))
	}
	return out, nil
}

func (r *bookRepository) Add(ctx context.Context, b *bookModel.Book) error {
	return r.u.add(ctx, "book", b, bookWriter(b))
}

func (r *bookRepository) Update(ctx context.Context, b *bookModel.Book) error {
	return r.u.update(ctx, "book", b, bookWriter(b))
}

func (r *bookRepository) Delete(ctx context.Context, b *bookModel.Book) error {
	return r.u.remove(ctx, "book", b, bookWriter(b))
}

// =====================================================
// PUBLISHERS
// =====================================================

type publisherRepository struct{ u *UnitOfWork }

func (r *publisherRepository) GetByID(ctx context.Context, id uuid.UUID) (*publisherModel.Publisher, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.publishers[id]
	if !ok {
		return nil, nil
	}
	return publisherModel.RestorePublisher(s, nil), nil
}

func (r *publisherRepository) GetAll(ctx context.Context) ([]*publisherModel.Publisher, error) {
	return r.list(ctx, false)
}

func (r *publisherRepository) GetPublishersWithBooks(ctx context.Context) ([]*publisherModel.Publisher, error) {
	return r.list(ctx, true)
}

func (r *publisherRepository) list(ctx context.Context, withBooks bool) ([]*publisherModel.Publisher, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}

	snaps := live(t.publishers, publisherBase, nil)
	sortByName(snaps, func(s publisherModel.PublisherSnapshot) string { return s.Name })

	out := make([]*publisherModel.Publisher, 0, len(snaps))
	for _, s := range snaps {
		var books []*bookModel.Book
		if withBooks {
			for _, b := range t.liveBooks(func(b bookModel.BookSnapshot) bool { return b.PublisherID == s.Base.ID }) {
				books = append(books, t.book(b))
			}
		}
		out = append(out, publisherModel.RestorePublisher(s, books))
	}
	return out, nil
}

func (r *publisherRepository) Add(ctx context.Context, p *publisherModel.Publisher) error {
	return r.u.add(ctx, "publisher", p, publisherWriter(p))
}

func (r *publisherRepository) Update(ctx context.Context, p *publisherModel.Publisher) error {
	return r.u.update(ctx, "publisher", p, publisherWriter(p))
}

func (r *publisherRepository) Delete(ctx context.Context, p *publisherModel.Publisher) error {
	return r.u.remove(ctx, "publisher", p, publisherWriter(p))
}

// =====================================================
// STORES
// =====================================================

type storeRepository struct{ u *UnitOfWork }

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID) (*storeModel.Store, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.stores[id]
	if !ok {
		return nil, nil
	}
	return storeModel.RestoreStore(s, nil), nil
}

func (r *storeRepository) GetAll(ctx context.Context) ([]*storeModel.Store, error) {
	return r.list(ctx, false)
}

func (r *storeRepository) GetStoresWithSales(ctx context.Context) ([]*storeModel.Store, error) {
	return r.list(ctx, true)
}

func (r *storeRepository) list(ctx context.Context, withSales bool) ([]*storeModel.Store, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}

	snaps := live(t.stores, storeBase, nil)
	sortByName(snaps, func(s storeModel.StoreSnapshot) string { return s.Name })

	out := make([]*storeModel.Store, 0, len(snaps))
	for _, s := range snaps {
		var sales []*saleModel.Sale
		if withSales {
			for _, sale := range t.liveSales(func(x saleModel.SaleSnapshot) bool { return x.StoreID == s.Base.ID }) {
				sales = append(sales, t.sale(sale))
			}
		}
		out = append(out, storeModel.RestoreStore(s, sales))
	}
	return out, nil
}

func (r *storeRepository) Add(ctx context.Context, s *storeModel.Store) error {
	return r.u.add(ctx, "store", s, storeWriter(s))
}

func (r *storeRepository) Update(ctx context.Context, s *storeModel.Store) error {
	return r.u.update(ctx, "store", s, storeWriter(s))
}

func (r *storeRepository) Delete(ctx context.Context, s *storeModel.Store) error {
	return r.u.remove(ctx, "store", s, storeWriter(s))
}

// =====================================================
// SALES
// =====================================================

type saleRepository struct{ u *UnitOfWork }

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*saleModel.Sale, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := t.sales[id]
	if !ok {
		return nil, nil
	}
	return t.sale(s), nil
}

func (r *saleRepository) GetAll(ctx context.Context) ([]*saleModel.Sale, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*saleModel.Sale, 0)
	for _, s := range t.liveSales(nil) {
		out = append(out, saleModel.RestoreSale(s, nil))
	}
	return out, nil
}

func (r *saleRepository) GetSalesWithItems(ctx context.Context) ([]*saleModel.Sale, error) {
	return r.withItems(ctx, nil)
}

func (r *saleRepository) GetSalesByStore(ctx context.Context, storeID uuid.UUID) ([]*saleModel.Sale, error) {
	return r.withItems(ctx, func(s saleModel.SaleSnapshot) bool { return s.StoreID == storeID })
}

func (r *saleRepository) withItems(ctx context.Context, keep func(saleModel.SaleSnapshot) bool) ([]*saleModel.Sale, error) {
	t, err := r.u.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*saleModel.Sale, 0)
	for _, s := range t.liveSales(keep) {
		out = append(out, t.sale(s))
	}
	return out, nil
}

func (r *saleRepository) Add(ctx context.Context, s *saleModel.Sale) error {
	return r.u.add(ctx, "sale", s, saleWriter(s))
}

func (r *saleRepository) Update(ctx context.Context, s *saleModel.Sale) error {
	return r.u.update(ctx, "sale", s, saleWriter(s))
}

func (r *saleRepository) Delete(ctx context.Context, s *saleModel.Sale) error {
	return r.u.remove(ctx, "sale", s, saleWriter(s))
}

func sortByName[S any](snaps []S, name func(S) string) {
	sort.Slice(snaps, func(i, j int) bool { return name(snaps[i]) < name(snaps[j]) })
}
