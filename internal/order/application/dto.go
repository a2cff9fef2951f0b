package application

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
)

// OrderItemCommand 下单明细命令
type OrderItemCommand struct {
	ProductID uint
	Quantity  int
	// 折扣百分比（0-100）
	Discount decimal.Decimal
}

// CreateOrderCommand 下单命令
type CreateOrderCommand struct {
	CustomerID uint
	UserID     string
	OrderDate  time.Time
	Items      []OrderItemCommand
}

// UpdateOrderCommand 更新订单命令
type UpdateOrderCommand struct {
	CustomerID uint
	OrderDate  *time.Time
}

// OrderItemDTO 订单明细视图
type OrderItemDTO struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// OrderDTO 订单视图
type OrderDTO struct {
	ID            uint            `json:"id"`
	OrderDate     time.Time       `json:"order_date"`
	CustomerID    uint            `json:"customer_id"`
	UserID        string          `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	Items         []OrderItemDTO  `json:"items"`
}

func toOrderDTO(o *domain.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            o.ID,
		OrderDate:     o.OrderDate,
		CustomerID:    o.CustomerID,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		TotalDiscount: o.TotalDiscount,
		FinalAmount:   o.FinalAmount(),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	return dto
}
