package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 关联记录缺失时单据上的占位文案
const (
	UnknownCustomerName = "Unknown Customer"
	UnknownUserName     = "Unknown User"
	UnknownProductName  = "Unknown Product"
)

// InvoiceLine 单据行。
// 单价取商品当前售价，小计按当前售价重算。
type InvoiceLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	// 折扣百分比
	Discount decimal.Decimal `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Invoice 销售单据。
// 由订单即时投影生成，不落库。
type Invoice struct {
	OrderID      uint            `json:"order_id"`
	OrderDate    time.Time       `json:"order_date"`
	CustomerName string          `json:"customer_name"`
	CashierName  string          `json:"cashier_name"`
	StoreName    string          `json:"store_name"`
	StoreAddress string          `json:"store_address"`
	StorePhone   string          `json:"store_phone"`
	Lines        []InvoiceLine   `json:"lines"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	// 订单创建时记录的折扣总额
	TotalDiscount decimal.Decimal `json:"total_discount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
}

// InvoiceRenderer 将单据渲染为文件，返回文件路径
type InvoiceRenderer interface {
	Render(ctx context.Context, invoice *Invoice) (string, error)
}

// InvoicePrinter 将渲染好的单据送打
type InvoicePrinter interface {
	Print(ctx context.Context, path string) error
}
