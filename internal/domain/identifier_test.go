package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"orders", "Order_Items", "_private", "t1", "a"}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, ValidateIdentifier(name))
		})
	}

	invalid := []struct {
		name  string
		ident string
	}{
		{"empty", ""},
		{"leading digit", "1orders"},
		{"embedded space", "order items"},
		{"semicolon", "orders;drop table users"},
		{"quote", `orders"`},
		{"dash", "order-items"},
		{"dot qualified", "public.orders"},
		{"comment", "orders--"},
		{"too long", strings.Repeat("a", 64)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.ident)
			require.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"orders"`, QuoteIdentifier("orders"))
	assert.Equal(t, `"we""ird"`, QuoteIdentifier(`we"ird`))
}
