// Package domain 包含商品目录的领域模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
)

// ProductStatus 商品状态
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusInactive     ProductStatus = "INACTIVE"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// Category 商品分类
type Category struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// 分类下的商品
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string { return "categories" }

// Product 商品实体
// Quantity 为空表示尚未入库
type Product struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// 可售数量，入库前为 NULL
	Quantity *int `gorm:"column:quantity" json:"quantity"`
	// 是否有货，随 Quantity 派生维护
	IsStock bool `gorm:"column:is_stock;not null;default:false" json:"is_stock"`
	// 唯一货号
	SKU string `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	// 进货价
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:decimal(12,2);not null" json:"purchase_price"`
	// 售价
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:decimal(12,2);not null" json:"selling_price"`
	// 分类
	CategoryID uint          `gorm:"column:category_id;index;not null" json:"category_id"`
	Category   *Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Status     ProductStatus `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'" json:"status"`
}

func (Product) TableName() string { return "products" }

// Available 可售数量，NULL 视作 0
func (p *Product) Available() int {
	if p.Quantity == nil {
		return 0
	}
	return *p.Quantity
}

// Profit 单件毛利
func (p *Product) Profit() decimal.Decimal {
	return p.SellingPrice.Sub(p.PurchasePrice)
}

// TotalValue 当前库存的进货价值
func (p *Product) TotalValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Available())))
}

// AdjustStock 调整库存并同步 IsStock。库存不变式：数量永远 >= 0
func (p *Product) AdjustStock(delta int) {
	qty := p.Available() + delta
	if qty < 0 {
		qty = 0
	}
	p.Quantity = &qty
	p.IsStock = qty > 0
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 批量保存商品
	SaveAll(ctx context.Context, products []*Product) error
	// 保存单个商品
	Save(ctx context.Context, product *Product) error
	// 按 ID 获取商品
	GetByID(ctx context.Context, id uint) (*Product, error)
	// 按货号判断是否已存在
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	// 分页列出商品
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Product, int64, error)
	// 列出某分类下的商品
	ListByCategory(ctx context.Context, categoryID uint) ([]*Product, error)
	// 批量删除，返回删除条数
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id uint) error
}
