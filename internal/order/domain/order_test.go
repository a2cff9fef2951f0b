package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineAmounts(t *testing.T) {
	item := &OrderItem{Quantity: 3, Discount: decimal.NewFromInt(10)}

	// 3*100 = 300，折 10% 后 270
	lineTotal, discount := item.LineAmounts(decimal.NewFromInt(100))
	assert.True(t, lineTotal.Equal(decimal.NewFromInt(270)))
	assert.True(t, discount.Equal(decimal.NewFromInt(30)))

	item.Discount = decimal.Zero
	lineTotal, discount = item.LineAmounts(decimal.NewFromInt(100))
	assert.True(t, lineTotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, discount.IsZero())
}

func TestFinalAmount(t *testing.T) {
	o := &Order{
		TotalAmount:   decimal.NewFromInt(370),
		TotalDiscount: decimal.NewFromInt(30),
	}
	assert.True(t, o.FinalAmount().Equal(decimal.NewFromInt(340)))
}
