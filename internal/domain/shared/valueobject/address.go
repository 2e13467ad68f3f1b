package valueobject

import (
	"strings"
)

// DefaultCountry is used when an address snapshot carries no country.
const DefaultCountry = "France"

// Address is an immutable postal-address snapshot carried by commercial
// documents. It is copied into the document at creation time and never
// resolved back to a master-data record.
type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// NewAddress creates an address snapshot, trimming whitespace and applying
// the default country when none is given.
func NewAddress(street, postalCode, city, country string) Address {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}
	return Address{
		Street:     strings.TrimSpace(street),
		PostalCode: strings.TrimSpace(postalCode),
		City:       strings.TrimSpace(city),
		Country:    country,
	}
}

// IsZero returns true when no address component is set
func (a Address) IsZero() bool {
	return a.Street == "" && a.PostalCode == "" && a.City == "" && a.Country == ""
}

// String returns a single-line rendering of the address
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.PostalCode, a.City, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
