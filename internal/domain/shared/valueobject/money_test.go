package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
	})
}

func TestNewMoneyEUR(t *testing.T) {
	m := NewMoneyEUR(decimal.NewFromFloat(50.00))
	assert.Equal(t, EUR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyEURFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyEURFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyEURFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyEURFromFloat(100.25)
		b := NewMoneyEURFromFloat(49.75)

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150", sum.Amount().String())
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyEURFromFloat(100)
		b, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)

		_, err = a.Add(b)
		assert.Error(t, err)

		_, err = a.Subtract(b)
		assert.Error(t, err)
	})

	t.Run("subtracts same currency", func(t *testing.T) {
		a := NewMoneyEURFromFloat(100)
		b := NewMoneyEURFromFloat(30.50)

		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "69.5", diff.Amount().String())
	})

	t.Run("multiplies by factor", func(t *testing.T) {
		m := NewMoneyEURFromFloat(19.90).Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "59.7", m.Amount().String())
	})
}

func TestMoney_Round(t *testing.T) {
	// Round is half away from zero, the engine's monetary rounding
	tests := []struct {
		amount string
		want   string
	}{
		{"2.675", "2.68"},
		{"2.665", "2.67"},
		{"2.664", "2.66"},
		{"-2.675", "-2.68"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			m, err := NewMoneyEURFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Round(2).Amount().String())
		})
	}
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyEURFromFloat(100)
	b := NewMoneyEURFromFloat(200)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyEURFromFloat(100)))
	assert.False(t, a.Equals(b))
	assert.True(t, ZeroEUR().IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, NewMoneyEURFromFloat(-1).IsNegative())
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyEURFromFloat(215.76)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}
