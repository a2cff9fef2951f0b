// Package domain 进货采购领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	merchantdomain "github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// ErrPurchaseNotFound 采购单不存在
var ErrPurchaseNotFound = errors.New("purchase not found")

// Purchase 采购单
// 供货商被采购单引用时不可删除
type Purchase struct {
	gorm.Model
	MerchantID uint                     `gorm:"column:merchant_id;index;not null" json:"merchant_id"`
	Merchant   *merchantdomain.Merchant `gorm:"foreignKey:MerchantID;constraint:OnDelete:RESTRICT" json:"merchant,omitempty"`
	// 采购日期
	OrderDate time.Time `gorm:"column:order_date;not null" json:"order_date"`
	Notes     string    `gorm:"column:notes;type:varchar(500)" json:"notes"`
	// 采购总额，由明细汇总得出
	TotalAmount decimal.NullDecimal `gorm:"column:total_amount;type:decimal(12,2)" json:"total_amount"`
	Items       []PurchaseItem      `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Purchase) TableName() string { return "purchases" }

// PurchaseItem 采购明细
// 按名称记录商品，允许采购尚未建档的货品
type PurchaseItem struct {
	gorm.Model
	PurchaseID   uint            `gorm:"column:purchase_id;index;not null" json:"purchase_id"`
	ProductName  string          `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:decimal(12,2);not null" json:"price_per_unit"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:decimal(12,2);not null" json:"total_price"`
	// 已建档商品的货号，用于回填库存；可为空
	SKU string `gorm:"column:sku;type:varchar(64)" json:"sku"`
}

func (PurchaseItem) TableName() string { return "purchase_items" }

// Recalculate 重算明细小计与采购总额
func (p *Purchase) Recalculate() {
	total := decimal.Zero
	for i := range p.Items {
		item := &p.Items[i]
		item.TotalPrice = item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.TotalPrice)
	}
	p.TotalAmount = decimal.NewNullDecimal(total)
}

// PurchaseRepository 采购仓储接口
type PurchaseRepository interface {
	// CreateAndReceive 采购单落库并按货号回填商品库存，两者在同一事务内完成；
	// 货号未建档的明细静默跳过
	CreateAndReceive(ctx context.Context, purchase *Purchase) error
	Save(ctx context.Context, purchase *Purchase) error
	GetByID(ctx context.Context, id uint) (*Purchase, error)
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Purchase, int64, error)
	Delete(ctx context.Context, id uint) error
}
