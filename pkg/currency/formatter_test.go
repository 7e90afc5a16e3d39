package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"usd with cents", 480.5, "USD", "$480.50"},
		{"usd whole", 900, "USD", "$900.00"},
		{"thousands separator", 1234567.89, "USD", "$1,234,567.89"},
		{"euro", 612.5, "EUR", "€612.50"},
		{"gbp", 99.99, "GBP", "£99.99"},
		{"yen drops cents", 52300.6, "JPY", "¥52,301"},
		{"krw drops cents", 1250000, "KRW", "KRW 1,250,000"},
		{"unknown code falls back", 75, "NOK", "NOK 75.00"},
		{"empty code", 75, "", "75.00"},
		{"negative", -120.25, "USD", "-$120.25"},
		{"cents rounding carries", 19.999, "USD", "$20.00"},
		{"zero", 0, "USD", "$0.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.amount, tc.code))
		})
	}
}

func TestAddThousandsSeparator(t *testing.T) {
	assert.Equal(t, "1", addThousandsSeparator("1", ","))
	assert.Equal(t, "999", addThousandsSeparator("999", ","))
	assert.Equal(t, "1,000", addThousandsSeparator("1000", ","))
	assert.Equal(t, "12,345", addThousandsSeparator("12345", ","))
	assert.Equal(t, "1,234,567", addThousandsSeparator("1234567", ","))
}
