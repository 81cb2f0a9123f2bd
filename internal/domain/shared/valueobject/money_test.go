package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	t.Run("plain number", func(t *testing.T) {
		m, err := ParseMoney("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("123.45")))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("symbol and separators", func(t *testing.T) {
		m, err := ParseMoney(" $1,250.00 ")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(1250)))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseMoney("   ")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseMoney("twelve")
		assert.Error(t, err)
	})
}

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1234.5", "$1,234.50"},
		{"1000000", "$1,000,000.00"},
		{"-12", "-$12.00"},
		{"0.005", "$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMoney(decimal.RequireFromString(tt.in)).Format())
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "1,234.5", FormatDecimal(decimal.RequireFromString("1234.50")))
	assert.Equal(t, "42", FormatDecimal(decimal.NewFromInt(42)))
	assert.Equal(t, "9,999", FormatDecimal(decimal.RequireFromString("9999.000")))
}

func TestMoney_NonNegative(t *testing.T) {
	assert.NoError(t, NewMoney(decimal.Zero).NonNegative())
	assert.ErrorIs(t, NewMoney(decimal.NewFromInt(-1)).NonNegative(), ErrNegativeAmount)
}

func TestMoney_Ratio(t *testing.T) {
	used := NewMoney(decimal.NewFromInt(25))
	assert.True(t, used.Ratio(NewMoney(decimal.NewFromInt(100))).Equal(decimal.RequireFromString("0.25")))
	assert.True(t, used.Ratio(NewMoney(decimal.Zero)).IsZero())
}
