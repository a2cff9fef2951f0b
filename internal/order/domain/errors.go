package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound 订单不存在
var ErrOrderNotFound = errors.New("order not found")

// ErrUserNotFound 下单用户不存在
var ErrUserNotFound = errors.New("user not found")

// ErrEmptyOrder 订单没有任何明细
var ErrEmptyOrder = errors.New("order must contain at least one item")

// InvalidDiscountError 折扣百分比超出 0-100
type InvalidDiscountError struct {
	ProductID uint
	Discount  decimal.Decimal
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("invalid discount %s%% for product %d: must be between 0 and 100",
		e.Discount, e.ProductID)
}

// UnknownProductError 明细引用了不存在的商品
type UnknownProductError struct {
	ProductID uint
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product %d does not exist", e.ProductID)
}

// InsufficientStockError 库存不足
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
