// Package http 销售订单的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/order/application"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// OrderHandler HTTP 处理器
// 负责处理订单与销售单据相关的 HTTP 请求
type OrderHandler struct {
	orders   *application.OrderService
	invoices *application.InvoiceService
}

// 创建 HTTP 处理器实例
func NewOrderHandler(orders *application.OrderService, invoices *application.InvoiceService) *OrderHandler {
	return &OrderHandler{orders: orders, invoices: invoices}
}

// 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/orders")
	{
		api.POST("", h.CreateOrder)                    // 下单
		api.GET("", h.ListOrders)                      // 分页列出订单
		api.GET("/total-value", h.TotalOrderValue)     // 全部订单实收合计
		api.GET("/:id", h.GetOrder)                    // 获取订单详情
		api.PUT("/:id", h.UpdateOrder)                 // 更新订单
		api.DELETE("", h.DeleteOrders)                 // 批量删除订单
		api.GET("/:id/invoice", h.GetInvoice)          // 生成单据
		api.POST("/:id/invoice/pdf", h.RenderInvoice)  // 渲染单据 PDF
		api.POST("/:id/invoice/print", h.PrintInvoice) // 渲染并送打
	}
}

// OrderItemRequest 下单明细请求
type OrderItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CustomerID uint               `json:"customer_id" binding:"required"`
	UserID     string             `json:"user_id" binding:"required"`
	OrderDate  *time.Time         `json:"order_date"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder 下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := application.CreateOrderCommand{
		CustomerID: req.CustomerID,
		UserID:     req.UserID,
	}
	if req.OrderDate != nil {
		cmd.OrderDate = *req.OrderDate
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.OrderItemCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}

	dto, err := h.orders.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, "Failed to create order", err)
		return
	}

	response.Created(c, dto)
}

// GetOrder 获取订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order id")
		return
	}

	dto, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get order", err)
		return
	}

	response.Success(c, dto)
}

// ListOrders 分页列出订单
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var page query.PageRequest
	var opts query.Options
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.ShouldBindQuery(&opts); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orders.ListOrders(c.Request.Context(), page, opts)
	if err != nil {
		h.writeError(c, "Failed to list orders", err)
		return
	}

	response.Success(c, result)
}

// UpdateOrderRequest 更新订单请求
type UpdateOrderRequest struct {
	CustomerID uint       `json:"customer_id"`
	OrderDate  *time.Time `json:"order_date"`
}

// UpdateOrder 更新订单
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	dto, err := h.orders.UpdateOrder(c.Request.Context(), id, application.UpdateOrderCommand{
		CustomerID: req.CustomerID,
		OrderDate:  req.OrderDate,
	})
	if err != nil {
		h.writeError(c, "Failed to update order", err)
		return
	}

	response.Success(c, dto)
}

// DeleteOrdersRequest 批量删除订单请求
type DeleteOrdersRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// DeleteOrders 批量删除订单
func (h *OrderHandler) DeleteOrders(c *gin.Context) {
	var req DeleteOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.orders.DeleteOrders(c.Request.Context(), req.IDs)
	if err != nil {
		h.writeError(c, "Failed to delete orders", err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// TotalOrderValue 全部订单实收合计
func (h *OrderHandler) TotalOrderValue(c *gin.Context) {
	total, err := h.orders.CalculateTotalOrderValue(c.Request.Context())
	if err != nil {
		h.writeError(c, "Failed to calculate total order value", err)
		return
	}

	response.Success(c, gin.H{"total_value": total})
}

// GetInvoice 生成销售单据
func (h *OrderHandler) GetInvoice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order id")
		return
	}

	invoice, err := h.invoices.BuildInvoice(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to build invoice", err)
		return
	}

	response.Success(c, invoice)
}

// RenderInvoice 渲染单据为 PDF
func (h *OrderHandler) RenderInvoice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order id")
		return
	}

	invoice, path, err := h.invoices.RenderInvoice(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to render invoice", err)
		return
	}

	response.Success(c, gin.H{"invoice": invoice, "path": path})
}

// PrintInvoice 渲染并送打单据
func (h *OrderHandler) PrintInvoice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order id")
		return
	}

	path, err := h.invoices.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to print invoice", err)
		return
	}

	response.Success(c, gin.H{"path": path})
}

// writeError 按领域错误映射 HTTP 状态码
func (h *OrderHandler) writeError(c *gin.Context, msg string, err error) {
	var unknownProduct *domain.UnknownProductError
	var stockErr *domain.InsufficientStockError
	var discountErr *domain.InvalidDiscountError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &unknownProduct):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &stockErr):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmptyOrder), errors.As(err, &discountErr):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
