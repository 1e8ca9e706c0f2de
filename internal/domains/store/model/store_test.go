package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saleModel "pubs-backend/internal/domains/sale/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/valueobject"
)

func TestNewStore(t *testing.T) {
	_, err := NewStore("", nil, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	s, err := NewStore("Corner Books", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Corner Books", s.Name())
	assert.Empty(t, s.Sales())
}

func TestStore_Mutators(t *testing.T) {
	s, err := NewStore("Corner Books", nil, nil)
	require.NoError(t, err)

	phone, email := "555", "shop@corner.test"
	s.UpdateContactInfo(&phone, &email)
	assert.Equal(t, phone, *s.Phone())
	assert.Equal(t, email, *s.Email())

	assert.ErrorIs(t, s.UpdateAddress(nil), shared.ErrInvalidArgument)
	addr := valueobject.NewAddress("2 High St", "Leeds", "", "LS1", "UK")
	require.NoError(t, s.UpdateAddress(&addr))
	assert.Equal(t, "UK", s.Address().Country())
}

func TestStore_AddSale(t *testing.T) {
	s, err := NewStore("Corner Books", nil, nil)
	require.NoError(t, err)

	sale, err := saleModel.NewSale("ORD-1", s.ID())
	require.NoError(t, err)
	require.NoError(t, s.AddSale(sale))
	assert.Len(t, s.Sales(), 1)

	other, err := saleModel.NewSale("ORD-2", uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, s.AddSale(other), shared.ErrInvalidArgument)
	assert.ErrorIs(t, s.AddSale(nil), shared.ErrInvalidArgument)
	assert.Len(t, s.Sales(), 1)
}
