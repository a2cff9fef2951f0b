// Package domain 销售订单领域模型
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order 销售订单
// TotalAmount 为各行折后小计之和，TotalDiscount 为各行折扣额之和
type Order struct {
	gorm.Model
	// 下单时间
	OrderDate  time.Time `gorm:"column:order_date;not null" json:"order_date"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"customer_id"`
	// 经手收银员
	UserID        string          `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:decimal(12,2);not null" json:"total_discount"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

// FinalAmount 实收金额
func (o *Order) FinalAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.TotalDiscount)
}

// OrderItem 订单明细
// Discount 为该行的折扣百分比（0-100）
type OrderItem struct {
	gorm.Model
	OrderID   uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Discount  decimal.Decimal `gorm:"column:discount;type:decimal(5,2);not null" json:"discount"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineAmounts 按给定售价计算该行的折后小计与折扣额
func (i *OrderItem) LineAmounts(sellingPrice decimal.Decimal) (lineTotal, discount decimal.Decimal) {
	subtotal := sellingPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	discount = subtotal.Mul(i.Discount).Div(decimal.NewFromInt(100))
	return subtotal.Sub(discount), discount
}
