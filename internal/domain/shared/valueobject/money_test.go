package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(12345, IDR)
		require.NoError(t, err)
		assert.Equal(t, int64(12345), m.MinorUnits())
		assert.Equal(t, IDR, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(100, "")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantMinor int64
	}{
		{"two decimal places", "333.33", 33333},
		{"whole amount", "150", 15000},
		{"rounds excess precision", "10.005", 1001},
		{"negative amount", "-5.25", -525},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			m, err := NewMoneyFromDecimal(d, IDR)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinor, m.MinorUnits())
		})
	}
}

func TestMoney_Decimal_RoundTrip(t *testing.T) {
	m, err := NewMoneyIDRFromString("2999.97")
	require.NoError(t, err)
	assert.Equal(t, int64(299997), m.MinorUnits())
	assert.Equal(t, "2999.97", m.Decimal().StringFixed(2))
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyIDR(100)
		b := NewMoneyIDR(250)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(350), sum.MinorUnits())
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		a := NewMoneyIDR(100)
		b, _ := NewMoney(100, USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("MustAdd panics on mismatch", func(t *testing.T) {
		a := NewMoneyIDR(100)
		b, _ := NewMoney(100, USD)
		assert.Panics(t, func() { a.MustAdd(b) })
	})
}

func TestMoney_MultiplyByInt(t *testing.T) {
	// 333.33 * 3 must be exactly 999.99 with no float drift
	m, err := NewMoneyIDRFromString("333.33")
	require.NoError(t, err)
	product := m.MultiplyByInt(3)
	assert.Equal(t, int64(99999), product.MinorUnits())
	assert.Equal(t, "999.99", product.StringFixed())
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroIDR().IsZero())
	assert.True(t, NewMoneyIDR(1).IsPositive())
	assert.True(t, NewMoneyIDR(-1).IsNegative())
	assert.True(t, NewMoneyIDR(42).Equals(NewMoneyIDR(42)))
	assert.False(t, NewMoneyIDR(42).Equals(NewMoneyIDR(43)))

	usd, _ := NewMoney(42, USD)
	assert.False(t, NewMoneyIDR(42).Equals(usd))
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyIDR(123450)
	assert.Equal(t, "1234.50 IDR", m.String())
}
