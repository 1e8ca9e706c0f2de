package store

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"pubs-backend/internal/domains/store/model"
	"pubs-backend/internal/shared/request"
)

const (
	MaxNameLength  = 100
	MaxEmailLength = 100
	MaxPhoneLength = 20
)

// CreateStoreRequest - POST /api/v1/stores
type CreateStoreRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	request.AddressFields
}

func (r CreateStoreRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Phone, validation.Length(0, MaxPhoneLength)),
		validation.Field(&r.Email, is.EmailFormat, validation.Length(0, MaxEmailLength)),
	); err != nil {
		return err
	}
	return r.AddressFields.Validate()
}

type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	request.AddressFields
}

func ToStoreResponse(s *model.Store) *StoreResponse {
	return &StoreResponse{
		ID:            s.ID(),
		Name:          s.Name(),
		Phone:         s.Phone(),
		Email:         s.Email(),
		Version:       s.Version(),
		CreatedAt:     s.CreatedAt(),
		AddressFields: request.FromAddress(s.Address()),
	}
}

func ToStoreResponses(stores []*model.Store) []*StoreResponse {
	out := make([]*StoreResponse, len(stores))
	for i, s := range stores {
		out[i] = ToStoreResponse(s)
	}
	return out
}
