// Package http 客户收款的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	customerdomain "github.com/wyfcoding/shopsystem/internal/customer/domain"
	"github.com/wyfcoding/shopsystem/internal/payment/application"
	"github.com/wyfcoding/shopsystem/internal/payment/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// PaymentHandler HTTP 处理器
type PaymentHandler struct {
	svc *application.PaymentService
}

// 创建 HTTP 处理器实例
func NewPaymentHandler(svc *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// 注册路由
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/payments")
	{
		api.POST("", h.Create)       // 创建收款
		api.GET("", h.List)          // 分页列出收款
		api.GET("/:id", h.Get)       // 获取收款详情
		api.DELETE("/:id", h.Delete) // 删除收款
	}
}

// CreatePaymentRequest 创建收款请求
type CreatePaymentRequest struct {
	CustomerID uint            `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       *time.Time      `json:"date"`
	Info       string          `json:"info"`
}

// Create 创建收款
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.Error(c, http.StatusBadRequest, "amount must be positive")
		return
	}

	cmd := application.CreatePaymentCommand{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Info:       req.Info,
	}
	if req.Date != nil {
		cmd.Date = *req.Date
	}

	payment, err := h.svc.Create(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, "Failed to create payment", err)
		return
	}

	response.Created(c, payment)
}

// Get 获取收款详情
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get payment", err)
		return
	}

	response.Success(c, payment)
}

// List 分页列出收款
func (h *PaymentHandler) List(c *gin.Context) {
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

	result, err := h.svc.List(c.Request.Context(), page, opts)
	if err != nil {
		h.writeError(c, "Failed to list payments", err)
		return
	}

	response.Success(c, result)
}

// Delete 删除收款
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "Failed to delete payment", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

func (h *PaymentHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound), errors.Is(err, customerdomain.ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
