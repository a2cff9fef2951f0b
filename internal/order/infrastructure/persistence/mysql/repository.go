package mysql

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
	accountdomain "github.com/wyfcoding/shopsystem/internal/account/domain"
	catalog "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	customerdomain "github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/internal/order/infrastructure/messaging"
	"github.com/wyfcoding/shopsystem/pkg/db"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 订单列表允许的排序键
var orderSortable = map[string]string{
	"order_date":   "orders.order_date",
	"total_amount": "orders.total_amount",
	"created_at":   "orders.created_at",
}

type orderRepository struct{ db *gorm.DB }

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, page query.PageRequest, opts query.Options) ([]*domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})

	if opts.Search != "" || opts.Name != "" {
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id")
	}
	if opts.Search != "" {
		// 按客户名或订单内商品名匹配
		like := "%" + opts.Search + "%"
		q = q.Where("customers.name LIKE ? OR orders.id IN (?)", like,
			r.db.Table("order_items").
				Select("order_items.order_id").
				Joins("JOIN products ON products.id = order_items.product_id").
				Where("products.name LIKE ?", like))
	}
	if opts.Name != "" {
		// 按客户名称过滤
		q = q.Where("customers.name LIKE ?", "%"+opts.Name+"%")
	}
	if opts.MinAmount != nil {
		q = q.Where("orders.total_amount >= ?", opts.MinAmount)
	}
	if opts.MaxAmount != nil {
		q = q.Where("orders.total_amount <= ?", opts.MaxAmount)
	}
	if opts.StartDate != nil {
		q = q.Where("orders.order_date >= ?", opts.StartDate)
	}
	if opts.EndDate != nil {
		q = q.Where("orders.order_date <= ?", opts.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if clauseStr := query.OrderClause(opts, orderSortable); clauseStr != "" {
		q = q.Order(clauseStr)
	} else {
		q = q.Order("orders.order_date DESC")
	}

	var orders []*domain.Order
	if err := q.Preload("Items").Offset(page.Offset()).Limit(page.Limit()).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN ?", ids).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Order{}, ids)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *orderRepository) TotalOrderValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// txManager 下单事务管理器
type txManager struct {
	db         *db.DB
	orderTopic string
	stockTopic string
}

// NewTxManager 创建下单事务管理器
func NewTxManager(database *db.DB, orderTopic, stockTopic string) domain.TxManager {
	return &txManager{db: database, orderTopic: orderTopic, stockTopic: stockTopic}
}

func (m *txManager) RunInOrderTx(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	return m.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(&orderTx{tx: tx, orderTopic: m.orderTopic, stockTopic: m.stockTopic})
	})
}

// orderTx 单个下单事务的操作集合
type orderTx struct {
	tx         *gorm.DB
	orderTopic string
	stockTopic string
}

func (t *orderTx) UserExists(userID string) (bool, error) {
	var count int64
	err := t.tx.Model(&accountdomain.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

// GetProductForUpdate 以 FOR UPDATE 锁定商品行，防止并发下单超卖
func (t *orderTx) GetProductForUpdate(productID uint) (*catalog.Product, error) {
	var product catalog.Product
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.UnknownProductError{ProductID: productID}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (t *orderTx) SaveProduct(product *catalog.Product) error {
	return t.tx.Save(product).Error
}

func (t *orderTx) CreateOrder(order *domain.Order) error {
	return t.tx.Create(order).Error
}

func (t *orderTx) PublishOrderCreated(event domain.OrderCreatedEvent) error {
	key := strconv.FormatUint(uint64(event.OrderID), 10)
	return messaging.AppendToTx(t.tx, domain.EventTypeOrderCreated, t.orderTopic, key, event)
}

func (t *orderTx) PublishStockDepleted(event domain.StockDepletedEvent) error {
	key := strconv.FormatUint(uint64(event.ProductID), 10)
	return messaging.AppendToTx(t.tx, domain.EventTypeStockDepleted, t.stockTopic, key, event)
}

// customerReader 单据生成的客户读取
type customerReader struct{ db *gorm.DB }

// NewCustomerReader 创建客户读取器
func NewCustomerReader(db *gorm.DB) domain.CustomerReader {
	return &customerReader{db: db}
}

func (r *customerReader) CustomerName(ctx context.Context, id uint) (string, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).Select("name").First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return customer.Name, nil
}

// userReader 单据生成的用户读取
type userReader struct{ db *gorm.DB }

// NewUserReader 创建用户读取器
func NewUserReader(db *gorm.DB) domain.UserReader {
	return &userReader{db: db}
}

func (r *userReader) UserName(ctx context.Context, id string) (string, error) {
	var user accountdomain.User
	err := r.db.WithContext(ctx).Select("user_name").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.UserName, nil
}

// productReader 单据生成的商品读取
type productReader struct{ db *gorm.DB }

// NewProductReader 创建商品读取器
func NewProductReader(db *gorm.DB) domain.ProductReader {
	return &productReader{db: db}
}

func (r *productReader) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error) {
	if len(ids) == 0 {
		return map[uint]*catalog.Product{}, nil
	}

	var products []*catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]*catalog.Product, len(products))
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}
