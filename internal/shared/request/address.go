package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pubs-backend/internal/shared/valueobject"
)

const (
	MaxStreetLength     = 100
	MaxPostalCodeLength = 20
	DefaultCountry      = "USA"
)

// AddressFields là phần địa chỉ dùng chung cho các request create/update.
// Address chỉ được set khi có cả street và city.
type AddressFields struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// HasAddress reports whether both street and city are filled in.
func (f AddressFields) HasAddress() bool {
	return !IsBlank(f.Street) && !IsBlank(f.City)
}

func (f AddressFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Street, validation.Length(0, MaxStreetLength).Error("street must not exceed 100 characters")),
		validation.Field(&f.City,
			validation.When(!IsBlank(f.Street),
				validation.Required.Error("city is required when address is provided"),
			),
		),
		validation.Field(&f.PostalCode, validation.Length(0, MaxPostalCodeLength).Error("postal code must not exceed 20 characters")),
	)
}

// Address builds the value object, nil when HasAddress is false.
// Country defaults to DefaultCountry.
func (f AddressFields) Address() *valueobject.Address {
	if !f.HasAddress() {
		return nil
	}
	addr := valueobject.NewAddress(
		Value(f.Street, ""),
		Value(f.City, ""),
		Value(f.State, ""),
		Value(f.PostalCode, ""),
		Value(f.Country, DefaultCountry),
	)
	return &addr
}

// FromAddress is the inverse of Address, used by responses.
func FromAddress(a *valueobject.Address) AddressFields {
	if a == nil {
		return AddressFields{}
	}
	return AddressFields{
		Street:     Optional(a.Street()),
		City:       Optional(a.City()),
		State:      Optional(a.State()),
		PostalCode: Optional(a.PostalCode()),
		Country:    Optional(a.Country()),
	}
}

// IsBlank - nil, rỗng hoặc chỉ có khoảng trắng
func IsBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Value returns the trimmed *s, or fallback when s is blank.
func Value(s *string, fallback string) string {
	if IsBlank(s) {
		return fallback
	}
	return strings.TrimSpace(*s)
}

// NonBlank trims s and maps blank to nil.
func NonBlank(s *string) *string {
	if IsBlank(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
