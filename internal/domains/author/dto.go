package author

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pubs-backend/internal/domains/author/model"
	"pubs-backend/internal/shared/request"
)

// Constants for validation
const (
	MaxNameLength      = 50
	MaxEmailLength     = 100
	MaxPhoneLength     = 20
	MaxBiographyLength = 1000
)

// ========================================
// REQUESTS
// ========================================

// AddressFields - địa chỉ tuỳ chọn của tác giả
type AddressFields = request.AddressFields

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
	Biography *string `json:"biography,omitempty"`
	AddressFields
}

func (r CreateAuthorRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.Length(1, MaxNameLength).Error("first name must not exceed 50 characters"),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.Length(1, MaxNameLength).Error("last name must not exceed 50 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(0, MaxEmailLength).Error("email must not exceed 100 characters"),
		),
		validation.Field(&r.Phone, validation.Length(0, MaxPhoneLength).Error("phone must not exceed 20 characters")),
		validation.Field(&r.Biography, validation.Length(0, MaxBiographyLength).Error("biography must not exceed 1000 characters")),
	); err != nil {
		return err
	}
	return r.AddressFields.Validate()
}

// UpdateAuthorRequest - PUT /api/v1/authors/:id
// Tên tác giả không đổi được; Version (nếu gửi) phải khớp version hiện tại.
type UpdateAuthorRequest struct {
	ID             uuid.UUID `json:"-"`
	Email          string    `json:"email" binding:"required"`
	Phone          *string   `json:"phone,omitempty"`
	Biography      *string   `json:"biography,omitempty"`
	ContractStatus *string   `json:"contract_status,omitempty"`
	Version        *int64    `json:"version,omitempty"`
	AddressFields
}

func (r UpdateAuthorRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.By(requiredID)),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(0, MaxEmailLength).Error("email must not exceed 100 characters"),
		),
		validation.Field(&r.Phone, validation.Length(0, MaxPhoneLength).Error("phone must not exceed 20 characters")),
		validation.Field(&r.Biography, validation.Length(0, MaxBiographyLength).Error("biography must not exceed 1000 characters")),
		validation.Field(&r.ContractStatus,
			validation.In(
				string(model.ContractStatusPending),
				string(model.ContractStatusActive),
				string(model.ContractStatusSuspended),
				string(model.ContractStatusTerminated),
			).Error("unknown contract status"),
		),
		validation.Field(&r.Version, validation.Min(int64(1)).Error("version must be positive")),
	); err != nil {
		return err
	}
	return r.AddressFields.Validate()
}

func requiredID(value interface{}) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return errors.New("author id is required")
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

// AuthorResponse - JSON shape of an author
type AuthorResponse struct {
	ID             uuid.UUID          `json:"id"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	Phone          *string            `json:"phone,omitempty"`
	Street         *string            `json:"street,omitempty"`
	City           *string            `json:"city,omitempty"`
	State          *string            `json:"state,omitempty"`
	PostalCode     *string            `json:"postal_code,omitempty"`
	Country        *string            `json:"country,omitempty"`
	Biography      *string            `json:"biography,omitempty"`
	ContractStatus string             `json:"contract_status"`
	IsDeleted      bool               `json:"is_deleted"`
	Version        int64              `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
	Books          []BookLinkResponse `json:"books"`
}

// BookLinkResponse - one book the author wrote
type BookLinkResponse struct {
	BookID            uuid.UUID       `json:"book_id"`
	AuthorOrder       int             `json:"author_order"`
	RoyaltyPercentage decimal.Decimal `json:"royalty_percentage"`
}

func ToAuthorResponse(a *model.Author) *AuthorResponse {
	resp := &AuthorResponse{
		ID:             a.ID(),
		FirstName:      a.FirstName(),
		LastName:       a.LastName(),
		FullName:       a.FullName(),
		Email:          a.Email(),
		Phone:          a.Phone(),
		Biography:      a.Biography(),
		ContractStatus: a.ContractStatus().String(),
		IsDeleted:      a.IsDeleted(),
		Version:        a.Version(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
		Books:          make([]BookLinkResponse, 0, len(a.BookAuthors())),
	}

	addr := request.FromAddress(a.Address())
	resp.Street, resp.City, resp.State, resp.PostalCode, resp.Country =
		addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country

	for _, link := range a.BookAuthors() {
		resp.Books = append(resp.Books, BookLinkResponse{
			BookID:            link.BookID(),
			AuthorOrder:       link.AuthorOrder(),
			RoyaltyPercentage: link.RoyaltyPercentage(),
		})
	}
	return resp
}

func ToAuthorResponses(authors []*model.Author) []*AuthorResponse {
	out := make([]*AuthorResponse, len(authors))
	for i, a := range authors {
		out[i] = ToAuthorResponse(a)
	}
	return out
}
