package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate(t *testing.T) {
	p := &Purchase{
		Items: []PurchaseItem{
			{ProductName: "Widget", Quantity: 10, PricePerUnit: decimal.NewFromInt(6)},
			{ProductName: "Gadget", Quantity: 4, PricePerUnit: decimal.RequireFromString("2.50")},
		},
	}

	p.Recalculate()

	assert.True(t, p.Items[0].TotalPrice.Equal(decimal.NewFromInt(60)))
	assert.True(t, p.Items[1].TotalPrice.Equal(decimal.NewFromInt(10)))
	require.True(t, p.TotalAmount.Valid)
	assert.True(t, p.TotalAmount.Decimal.Equal(decimal.NewFromInt(70)))
}

func TestRecalculateEmptyPurchase(t *testing.T) {
	p := &Purchase{}
	p.Recalculate()

	require.True(t, p.TotalAmount.Valid)
	assert.True(t, p.TotalAmount.Decimal.IsZero())
}
