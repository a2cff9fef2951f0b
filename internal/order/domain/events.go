package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 事件类型常量
const (
	EventTypeOrderCreated  = "OrderCreated"
	EventTypeStockDepleted = "StockDepleted"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID       uint                    `json:"order_id"`
	CustomerID    uint                    `json:"customer_id"`
	UserID        string                  `json:"user_id"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	TotalDiscount decimal.Decimal         `json:"total_discount"`
	FinalAmount   decimal.Decimal         `json:"final_amount"`
	Items         []OrderCreatedEventItem `json:"items"`
	OccurredAt    time.Time               `json:"occurred_at"`
}

// OrderCreatedEventItem 订单创建事件的明细
type OrderCreatedEventItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// StockDepletedEvent 库存售罄事件
type StockDepletedEvent struct {
	ProductID  uint      `json:"product_id"`
	SKU        string    `json:"sku"`
	OccurredAt time.Time `json:"occurred_at"`
}
