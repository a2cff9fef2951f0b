package application

import (
	"context"

	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/pkg/config"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/metrics"
)

// InvoiceService 销售单据服务。
// 单据是订单的即时投影，每次生成都从当前数据重算，不落库。
type InvoiceService struct {
	orders    domain.OrderRepository
	customers domain.CustomerReader
	users     domain.UserReader
	products  domain.ProductReader
	renderer  domain.InvoiceRenderer
	printer   domain.InvoicePrinter
	store     config.InvoiceConfig
	metrics   *metrics.Metrics
}

// NewInvoiceService 构造函数。metrics 可为 nil。
func NewInvoiceService(
	orders domain.OrderRepository,
	customers domain.CustomerReader,
	users domain.UserReader,
	products domain.ProductReader,
	renderer domain.InvoiceRenderer,
	printer domain.InvoicePrinter,
	store config.InvoiceConfig,
	m *metrics.Metrics,
) *InvoiceService {
	return &InvoiceService{
		orders:    orders,
		customers: customers,
		users:     users,
		products:  products,
		renderer:  renderer,
		printer:   printer,
		store:     store,
		metrics:   m,
	}
}

// BuildInvoice 由订单生成单据。
// 行小计按商品当前售价重算，总额与折扣取下单时落库金额；
// 关联记录已删除时用占位名降级，该行小计按 0 显示。
func (s *InvoiceService) BuildInvoice(ctx context.Context, orderID uint) (*domain.Invoice, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	customerName, err := s.customers.CustomerName(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customerName == "" {
		customerName = domain.UnknownCustomerName
	}

	cashierName, err := s.users.UserName(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if cashierName == "" {
		cashierName = domain.UnknownUserName
	}

	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		OrderID:       order.ID,
		OrderDate:     order.OrderDate,
		CustomerName:  customerName,
		CashierName:   cashierName,
		StoreName:     s.store.StoreName,
		StoreAddress:  s.store.StoreAddress,
		StorePhone:    s.store.StorePhone,
		TotalDiscount: order.TotalDiscount,
	}

	for _, item := range order.Items {
		line := domain.InvoiceLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		}
		if product, ok := products[item.ProductID]; ok {
			line.ProductName = product.Name
			line.UnitPrice = product.SellingPrice
			line.Subtotal, _ = item.LineAmounts(product.SellingPrice)
		} else {
			line.ProductName = domain.UnknownProductName
		}
		invoice.Lines = append(invoice.Lines, line)
	}

	invoice.TotalAmount = order.TotalAmount
	invoice.FinalAmount = order.FinalAmount()

	if s.metrics != nil {
		s.metrics.InvoicesTotal.Inc()
	}
	return invoice, nil
}

// RenderInvoice 生成单据并渲染为 PDF，返回文件路径
func (s *InvoiceService) RenderInvoice(ctx context.Context, orderID uint) (*domain.Invoice, string, error) {
	invoice, err := s.BuildInvoice(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	path, err := s.renderer.Render(ctx, invoice)
	if err != nil {
		return nil, "", err
	}

	logger.Info(ctx, "Invoice rendered", "order_id", orderID, "path", path)
	return invoice, path, nil
}

// PrintInvoice 渲染并送打
func (s *InvoiceService) PrintInvoice(ctx context.Context, orderID uint) (string, error) {
	_, path, err := s.RenderInvoice(ctx, orderID)
	if err != nil {
		return "", err
	}

	if err := s.printer.Print(ctx, path); err != nil {
		return "", err
	}

	logger.Info(ctx, "Invoice sent to printer", "order_id", orderID, "path", path)
	return path, nil
}
