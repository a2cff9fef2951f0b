package domain

import (
	"context"

	"github.com/shopspring/decimal"
	catalog "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	GetByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*Order, int64, error)
	Save(ctx context.Context, order *Order) error
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	// 全部订单实收金额合计
	TotalOrderValue(ctx context.Context) (decimal.Decimal, error)
}

// OrderTx 下单事务的操作集合。
// 实现方保证所有操作落在同一数据库事务内，任一失败则整体回滚。
type OrderTx interface {
	// 校验下单用户存在
	UserExists(userID string) (bool, error)
	// 锁定商品行直至事务结束
	GetProductForUpdate(productID uint) (*catalog.Product, error)
	SaveProduct(product *catalog.Product) error
	// 保存订单及其明细
	CreateOrder(order *Order) error
	// 事件随事务落入 Outbox，由中继异步投递
	PublishOrderCreated(event OrderCreatedEvent) error
	PublishStockDepleted(event StockDepletedEvent) error
}

// TxManager 下单事务管理器
type TxManager interface {
	RunInOrderTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// CustomerReader 单据生成所需的客户读取
type CustomerReader interface {
	// 客户名称；不存在返回空串而非错误
	CustomerName(ctx context.Context, id uint) (string, error)
}

// UserReader 单据生成所需的用户读取
type UserReader interface {
	// 用户名称；不存在返回空串而非错误
	UserName(ctx context.Context, id string) (string, error)
}

// ProductReader 单据生成所需的商品读取
type ProductReader interface {
	// 按 ID 批量取商品；缺失的 ID 不在结果里
	ProductsByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error)
}
