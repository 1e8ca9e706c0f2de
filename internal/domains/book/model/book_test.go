package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
)

type fakeAuthor struct{ id uuid.UUID }

func (f *fakeAuthor) ID() uuid.UUID { return f.id }

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := NewBook(valueobject.MustISBN("978-0-306-40615-7"), "Go in Practice",
		BookTypeTechnology, uuid.New(), valueobject.USD(20))
	require.NoError(t, err)
	return b
}

func TestNewBook(t *testing.T) {
	b := newTestBook(t)

	assert.Equal(t, "9780306406157", b.ISBN().Value())
	assert.Equal(t, BookTypeTechnology, b.Type())
	assert.Equal(t, 0, b.YearToDateSales())
	assert.False(t, b.IsPublished())
	assert.Empty(t, b.BookAuthors())
}

func TestNewBook_Validation(t *testing.T) {
	isbn := valueobject.MustISBN("0306406152")
	price := valueobject.USD(10)
	pub := uuid.New()

	tests := []struct {
		name     string
		isbn     valueobject.ISBN
		title    string
		bookType BookType
		pub      uuid.UUID
		price    valueobject.Money
	}{
		{"empty title", isbn, "  ", BookTypeBusiness, pub, price},
		{"missing isbn", valueobject.ISBN{}, "T", BookTypeBusiness, pub, price},
		{"unknown type", isbn, "T", BookType("poetry"), pub, price},
		{"missing publisher", isbn, "T", BookTypeBusiness, uuid.Nil, price},
		{"missing price", isbn, "T", BookTypeBusiness, pub, valueobject.Money{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBook(tt.isbn, tt.title, tt.bookType, tt.pub, tt.price)
			assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
		})
	}
}

func TestBook_RecordSale(t *testing.T) {
	b := newTestBook(t)

	require.NoError(t, b.RecordSale(3))
	require.NoError(t, b.RecordSale(2))
	assert.Equal(t, 5, b.YearToDateSales())
	assert.NotNil(t, b.UpdatedAt())

	for _, qty := range []int{0, -1} {
		err := b.RecordSale(qty)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	}
	assert.Equal(t, 5, b.YearToDateSales())
}

func TestBook_UpdateDetailsIsAllOrNothing(t *testing.T) {
	b := newTestBook(t)
	desc := "new"

	err := b.UpdateDetails("New title", BookType("bogus"), &desc)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Equal(t, "Go in Practice", b.Title())
	assert.Nil(t, b.Description())

	require.NoError(t, b.UpdateDetails("New title", BookTypeBusiness, &desc))
	assert.Equal(t, "New title", b.Title())
	assert.Equal(t, BookTypeBusiness, b.Type())
	assert.Equal(t, "new", *b.Description())
}

func TestBook_Publish(t *testing.T) {
	b := newTestBook(t)

	assert.ErrorIs(t, b.Publish(time.Time{}), shared.ErrInvalidArgument)

	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.Publish(date))
	assert.True(t, b.IsPublished())
	assert.Equal(t, date, *b.PublishedDate())
}

func TestBook_AddAuthor(t *testing.T) {
	b := newTestBook(t)
	author := &fakeAuthor{id: uuid.New()}

	link, err := b.AddAuthor(author, 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, b.ID(), link.BookID())
	assert.Equal(t, author.ID(), link.AuthorID())
	assert.Len(t, b.BookAuthors(), 1)

	_, err = b.AddAuthor(author, 2, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	var missing *fakeAuthor
	_, err = b.AddAuthor(missing, 1, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = b.AddAuthor(&fakeAuthor{id: uuid.New()}, 2, decimal.NewFromInt(101))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Len(t, b.BookAuthors(), 1)
}

func TestNewBookAuthor_RoyaltyBounds(t *testing.T) {
	bookID, authorID := uuid.New(), uuid.New()

	tests := []struct {
		royalty int64
		valid   bool
	}{
		{-1, false},
		{0, true},
		{50, true},
		{100, true},
		{101, false},
	}

	for _, tt := range tests {
		_, err := NewBookAuthor(bookID, authorID, 1, decimal.NewFromInt(tt.royalty))
		if tt.valid {
			assert.NoError(t, err, "royalty %d", tt.royalty)
		} else {
			assert.ErrorIs(t, err, shared.ErrInvalidArgument, "royalty %d", tt.royalty)
		}
	}
}

func TestBookAuthor_Updates(t *testing.T) {
	link, err := NewBookAuthor(uuid.New(), uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.ErrorIs(t, link.UpdateAuthorOrder(0), shared.ErrInvalidArgument)
	assert.ErrorIs(t, link.UpdateRoyaltyPercentage(decimal.NewFromFloat(100.5)), shared.ErrInvalidArgument)
	assert.Equal(t, 1, link.AuthorOrder())

	require.NoError(t, link.UpdateAuthorOrder(2))
	require.NoError(t, link.UpdateRoyaltyPercentage(decimal.NewFromInt(100)))
	assert.Equal(t, 2, link.AuthorOrder())
	assert.True(t, decimal.NewFromInt(100).Equal(link.RoyaltyPercentage()))
}

func TestBook_SnapshotRestore(t *testing.T) {
	b := newTestBook(t)
	_, err := b.AddAuthor(&fakeAuthor{id: uuid.New()}, 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, b.RecordSale(4))

	restored := RestoreBook(b.Snapshot(), b.BookAuthors())

	assert.Equal(t, b.Snapshot(), restored.Snapshot())
	assert.Len(t, restored.BookAuthors(), 1)
}

func TestBook_SoftDeleteDoesNotCascade(t *testing.T) {
	b := newTestBook(t)
	link, err := b.AddAuthor(&fakeAuthor{id: uuid.New()}, 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	b.MarkAsDeleted("editor")

	assert.True(t, b.IsDeleted())
	assert.False(t, link.IsDeleted())
}
