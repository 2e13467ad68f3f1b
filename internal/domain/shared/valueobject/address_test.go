package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAddress(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		addr := NewAddress("  12 rue de la Paix ", " 75002", "Paris ", " France ")
		assert.Equal(t, "12 rue de la Paix", addr.Street)
		assert.Equal(t, "75002", addr.PostalCode)
		assert.Equal(t, "Paris", addr.City)
		assert.Equal(t, "France", addr.Country)
	})

	t.Run("applies default country", func(t *testing.T) {
		addr := NewAddress("12 rue de la Paix", "75002", "Paris", "")
		assert.Equal(t, DefaultCountry, addr.Country)
	})
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, NewAddress("12 rue de la Paix", "75002", "Paris", "").IsZero())
}

func TestAddress_String(t *testing.T) {
	addr := NewAddress("12 rue de la Paix", "75002", "Paris", "France")
	assert.Equal(t, "12 rue de la Paix, 75002, Paris, France", addr.String())

	partial := Address{City: "Lyon", Country: "France"}
	assert.Equal(t, "Lyon, France", partial.String())
}
