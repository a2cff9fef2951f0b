package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOwedTreatsNullAsZero(t *testing.T) {
	c := &Customer{}
	assert.True(t, c.Owed().IsZero())

	c.MoneyOwed = decimal.NewNullDecimal(decimal.NewFromInt(120))
	assert.True(t, c.Owed().Equal(decimal.NewFromInt(120)))
}

func TestApplyPaymentReducesDebt(t *testing.T) {
	c := &Customer{MoneyOwed: decimal.NewNullDecimal(decimal.NewFromInt(100))}

	c.ApplyPayment(decimal.NewFromInt(40))
	assert.True(t, c.Owed().Equal(decimal.NewFromInt(60)))

	// 超额付款不会把余额打成负数
	c.ApplyPayment(decimal.NewFromInt(200))
	assert.True(t, c.Owed().IsZero())
	assert.True(t, c.MoneyOwed.Valid)
}

func TestAddDebt(t *testing.T) {
	c := &Customer{}
	c.AddDebt(decimal.NewFromInt(75))
	assert.True(t, c.Owed().Equal(decimal.NewFromInt(75)))

	c.AddDebt(decimal.NewFromInt(25))
	assert.True(t, c.Owed().Equal(decimal.NewFromInt(100)))
}
