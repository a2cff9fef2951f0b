// Package application 销售订单的应用服务
package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/metrics"
	"github.com/wyfcoding/shopsystem/pkg/query"
)

// OrderService 订单应用服务
type OrderService struct {
	orders  domain.OrderRepository
	tx      domain.TxManager
	metrics *metrics.Metrics
}

// NewOrderService 构造函数。metrics 可为 nil。
func NewOrderService(orders domain.OrderRepository, tx domain.TxManager, m *metrics.Metrics) *OrderService {
	return &OrderService{orders: orders, tx: tx, metrics: m}
}

// CreateOrder 下单。
// 整个流程在一个数据库事务内完成：校验用户、逐行锁定商品、
// 校验并扣减库存、汇总金额、落单、写出站事件。任一环节失败整体回滚。
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range cmd.Items {
		if item.Discount.IsNegative() || item.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, &domain.InvalidDiscountError{ProductID: item.ProductID, Discount: item.Discount}
		}
	}

	orderDate := cmd.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &domain.Order{
		OrderDate:  orderDate,
		CustomerID: cmd.CustomerID,
		UserID:     cmd.UserID,
	}

	err := s.tx.RunInOrderTx(ctx, func(tx domain.OrderTx) error {
		ok, err := tx.UserExists(cmd.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}

		totalAmount := decimal.Zero
		totalDiscount := decimal.Zero
		var depleted []domain.StockDepletedEvent

		for _, item := range cmd.Items {
			product, err := tx.GetProductForUpdate(item.ProductID)
			if err != nil {
				return err
			}

			available := product.Available()
			if available < item.Quantity {
				return &domain.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: available,
				}
			}

			line := domain.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Discount:  item.Discount,
			}
			lineTotal, discount := line.LineAmounts(product.SellingPrice)
			totalAmount = totalAmount.Add(lineTotal)
			totalDiscount = totalDiscount.Add(discount)

			product.AdjustStock(-item.Quantity)
			if err := tx.SaveProduct(product); err != nil {
				return err
			}
			if product.Available() == 0 {
				depleted = append(depleted, domain.StockDepletedEvent{
					ProductID:  product.ID,
					SKU:        product.SKU,
					OccurredAt: time.Now(),
				})
			}

			order.Items = append(order.Items, line)
		}

		order.TotalAmount = totalAmount
		order.TotalDiscount = totalDiscount

		if err := tx.CreateOrder(order); err != nil {
			return err
		}

		event := domain.OrderCreatedEvent{
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			UserID:        order.UserID,
			TotalAmount:   order.TotalAmount,
			TotalDiscount: order.TotalDiscount,
			FinalAmount:   order.FinalAmount(),
			OccurredAt:    time.Now(),
		}
		for _, item := range order.Items {
			event.Items = append(event.Items, domain.OrderCreatedEventItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := tx.PublishOrderCreated(event); err != nil {
			return err
		}
		for _, ev := range depleted {
			if err := tx.PublishStockDepleted(ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
	}
	logger.Info(ctx, "Order created",
		"order_id", order.ID, "customer_id", order.CustomerID, "user_id", order.UserID,
		"total_amount", order.TotalAmount.String(), "final_amount", order.FinalAmount().String())
	return toOrderDTO(order), nil
}

func (s *OrderService) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrdersFailedTotal.Inc()
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		s.metrics.StockConflictsTotal.Inc()
	}
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// ListOrders 分页列出订单
func (s *OrderService) ListOrders(ctx context.Context, page query.PageRequest, opts query.Options) (query.PagedResult[*OrderDTO], error) {
	orders, total, err := s.orders.List(ctx, page, opts)
	if err != nil {
		return query.PagedResult[*OrderDTO]{}, err
	}

	dtos := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	return query.NewPagedResult(dtos, total, page), nil
}

// UpdateOrder 更新订单的客户与下单时间。
// 明细与金额在下单时锁定，不支持修改。
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, cmd UpdateOrderCommand) (*OrderDTO, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.CustomerID != 0 {
		order.CustomerID = cmd.CustomerID
	}
	if cmd.OrderDate != nil {
		order.OrderDate = *cmd.OrderDate
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// DeleteOrders 批量删除订单，返回删除条数。
// 删除不回补库存。
func (s *OrderService) DeleteOrders(ctx context.Context, ids []uint) (int64, error) {
	deleted, err := s.orders.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "Orders deleted", "count", deleted)
	return deleted, nil
}

// CalculateTotalOrderValue 全部订单实收金额合计
func (s *OrderService) CalculateTotalOrderValue(ctx context.Context) (decimal.Decimal, error) {
	return s.orders.TotalOrderValue(ctx)
}
