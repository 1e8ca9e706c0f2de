package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
)

func newTestAuthor(t *testing.T) *Author {
	t.Helper()
	a, err := NewAuthor("Ann", "Lee", "ann@example.com", nil)
	require.NoError(t, err)
	return a
}

func newTestBook(t *testing.T) *bookModel.Book {
	t.Helper()
	b, err := bookModel.NewBook(valueobject.MustISBN("0306406152"), "Title",
		bookModel.BookTypeBusiness, uuid.New(), valueobject.USD(15))
	require.NoError(t, err)
	return b
}

func TestNewAuthor(t *testing.T) {
	a := newTestAuthor(t)

	assert.Equal(t, "Ann Lee", a.FullName())
	assert.Equal(t, ContractStatusPending, a.ContractStatus())
	assert.Nil(t, a.Address())
	assert.True(t, a.IsNew())
}

func TestNewAuthor_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		email string
	}{
		{"first", "", "Lee", "a@b.c"},
		{"last", "Ann", " ", "a@b.c"},
		{"email", "Ann", "Lee", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAuthor(tt.first, tt.last, tt.email, nil)
			assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		})
	}
}

func TestAuthor_Mutators(t *testing.T) {
	a := newTestAuthor(t)
	phone := "555-0100"

	require.NoError(t, a.UpdateContactInfo("new@example.com", &phone))
	assert.Equal(t, "new@example.com", a.Email())
	assert.Equal(t, "555-0100", *a.Phone())
	assert.NotNil(t, a.UpdatedAt())

	assert.ErrorIs(t, a.UpdateContactInfo("", nil), shared.ErrInvalidArgument)
	assert.Equal(t, "new@example.com", a.Email())

	assert.ErrorIs(t, a.UpdateAddress(nil), shared.ErrInvalidArgument)
	addr := valueobject.NewAddress("1 Main St", "Springfield", "", "", "USA")
	require.NoError(t, a.UpdateAddress(&addr))
	assert.True(t, addr.Equal(*a.Address()))

	a.UpdateBiography("Writes things.")
	assert.Equal(t, "Writes things.", *a.Biography())

	assert.ErrorIs(t, a.UpdateContractStatus("retired"), shared.ErrInvalidArgument)
	require.NoError(t, a.UpdateContractStatus(ContractStatusActive))
	assert.Equal(t, ContractStatusActive, a.ContractStatus())
}

func TestAuthor_AddBook(t *testing.T) {
	a := newTestAuthor(t)
	b := newTestBook(t)

	link, err := a.AddBook(b, 1, decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, b.ID(), link.BookID())
	assert.Equal(t, a.ID(), link.AuthorID())

	_, err = a.AddBook(b, 2, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	var missing *bookModel.Book
	_, err = a.AddBook(missing, 1, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Len(t, a.BookAuthors(), 1)
}

func TestLinkShapeIsTheSameFromBothSides(t *testing.T) {
	a := newTestAuthor(t)
	b := newTestBook(t)
	royalty := decimal.NewFromInt(25)

	fromAuthor, err := a.AddBook(b, 1, royalty)
	require.NoError(t, err)
	fromBook, err := b.AddAuthor(a, 1, royalty)
	require.NoError(t, err)

	assert.Equal(t, fromAuthor.BookID(), fromBook.BookID())
	assert.Equal(t, fromAuthor.AuthorID(), fromBook.AuthorID())
	assert.Equal(t, fromAuthor.AuthorOrder(), fromBook.AuthorOrder())
	assert.True(t, fromAuthor.RoyaltyPercentage().Equal(fromBook.RoyaltyPercentage()))
}

func TestAuthor_SnapshotRestore(t *testing.T) {
	a := newTestAuthor(t)
	addr := valueobject.NewAddress("", "", "", "", "")
	require.NoError(t, a.UpdateAddress(&addr))

	restored := RestoreAuthor(a.Snapshot(), nil)

	assert.Equal(t, a.Snapshot(), restored.Snapshot())
	assert.Equal(t, "", restored.Address().Street())
}
