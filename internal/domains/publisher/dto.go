package publisher

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"pubs-backend/internal/domains/book"
	"pubs-backend/internal/domains/publisher/model"
	"pubs-backend/internal/shared/request"
)

const (
	MaxNameLength    = 100
	MaxEmailLength   = 100
	MaxPhoneLength   = 20
	MaxWebsiteLength = 255
)

// CreatePublisherRequest - POST /api/v1/publishers
type CreatePublisherRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`
	request.AddressFields
}

func (r CreatePublisherRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Email, is.EmailFormat, validation.Length(0, MaxEmailLength)),
		validation.Field(&r.Phone, validation.Length(0, MaxPhoneLength)),
		validation.Field(&r.Website, is.URL, validation.Length(0, MaxWebsiteLength)),
	); err != nil {
		return err
	}
	return r.AddressFields.Validate()
}

// PublisherResponse - JSON shape of a publisher; Books chỉ có ở list endpoint
type PublisherResponse struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Email     *string              `json:"email,omitempty"`
	Phone     *string              `json:"phone,omitempty"`
	Website   *string              `json:"website,omitempty"`
	Version   int64                `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	Books     []*book.BookResponse `json:"books"`
	request.AddressFields
}

func ToPublisherResponse(p *model.Publisher) *PublisherResponse {
	return &PublisherResponse{
		ID:            p.ID(),
		Name:          p.Name(),
		Email:         p.Email(),
		Phone:         p.Phone(),
		Website:       p.Website(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		Books:         book.ToBookResponses(p.Books()),
		AddressFields: request.FromAddress(p.Address()),
	}
}

func ToPublisherResponses(publishers []*model.Publisher) []*PublisherResponse {
	out := make([]*PublisherResponse, len(publishers))
	for i, p := range publishers {
		out[i] = ToPublisherResponse(p)
	}
	return out
}
