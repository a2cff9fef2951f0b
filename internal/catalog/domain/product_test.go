package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAvailableTreatsNullAsZero(t *testing.T) {
	p := &Product{}
	assert.Equal(t, 0, p.Available())

	qty := 5
	p.Quantity = &qty
	assert.Equal(t, 5, p.Available())
}

func TestAdjustStockSyncsIsStock(t *testing.T) {
	qty := 3
	p := &Product{Quantity: &qty, IsStock: true}

	p.AdjustStock(-3)
	assert.Equal(t, 0, p.Available())
	assert.False(t, p.IsStock)

	p.AdjustStock(7)
	assert.Equal(t, 7, p.Available())
	assert.True(t, p.IsStock)

	// 永远不会降到 0 以下
	p.AdjustStock(-100)
	assert.Equal(t, 0, p.Available())
}

func TestProfitAndTotalValue(t *testing.T) {
	qty := 4
	p := &Product{
		Quantity:      &qty,
		PurchasePrice: decimal.NewFromInt(60),
		SellingPrice:  decimal.NewFromInt(100),
	}

	assert.True(t, p.Profit().Equal(decimal.NewFromInt(40)))
	assert.True(t, p.TotalValue().Equal(decimal.NewFromInt(240)))
}
