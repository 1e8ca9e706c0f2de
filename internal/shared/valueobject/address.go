package valueobject

import "fmt"

// Address is a postal address. Empty strings are kept as-is; the stricter
// "city required with street" rule belongs to request validation.
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
	country    string
}

func NewAddress(street, city, state, postalCode, country string) Address {
	return Address{
		street:     street,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
	}
}

func (a Address) Street() string     { return a.street }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

// Equal is structural; Address is comparable so == works too.
func (a Address) Equal(other Address) bool { return a == other }

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.street, a.city, a.state, a.postalCode, a.country)
}
