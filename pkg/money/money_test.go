package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/pkg/money"
)

func TestParseMajor(t *testing.T) {
	tests := []struct {
		input string
		cents int64
	}{
		{"8000", 800000},
		{"8000.00", 800000},
		{"8000.5", 800050},
		{"8000.50", 800050},
		{"0.01", 1},
		{"0", 0},
		{".99", 99},
		{" 1250.75 ", 125075},
		{"-500", -50000},
		{"-0.01", -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cents, err := money.ParseMajor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, cents)
		})
	}
}

func TestParseMajor_Invalid(t *testing.T) {
	inputs := []string{"", "   ", "abc", "1.234", "1.2.3", "12a", "1,000"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := money.ParseMajor(input)
			assert.Error(t, err)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$8,000.00", money.FormatCents(800000))
	assert.Equal(t, "$0.01", money.FormatCents(1))
	assert.Equal(t, "$0.00", money.FormatCents(0))
	assert.Equal(t, "-$1,234.56", money.FormatCents(-123456))
}

func TestRoundTrip(t *testing.T) {
	cents, err := money.ParseMajor("8000.00")
	require.NoError(t, err)
	assert.Equal(t, "$8,000.00", money.FormatCents(cents))
}
