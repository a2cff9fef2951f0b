// Package http 进货采购的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	merchantdomain "github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/internal/purchase/application"
	"github.com/wyfcoding/shopsystem/internal/purchase/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// PurchaseHandler HTTP 处理器
type PurchaseHandler struct {
	svc *application.PurchaseService
}

// 创建 HTTP 处理器实例
func NewPurchaseHandler(svc *application.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

// 注册路由
func (h *PurchaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/purchases")
	{
		api.POST("", h.Create)            // 创建采购单
		api.GET("", h.List)               // 分页列出采购单
		api.GET("/:id", h.Get)            // 获取采购单详情
		api.PUT("/:id/notes", h.UpdateNotes) // 更新采购备注
		api.DELETE("/:id", h.Delete)      // 删除采购单
	}
}

// PurchaseItemRequest 采购明细请求
type PurchaseItemRequest struct {
	ProductName  string          `json:"product_name" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	SKU          string          `json:"sku"`
}

// CreatePurchaseRequest 创建采购单请求
type CreatePurchaseRequest struct {
	MerchantID uint                  `json:"merchant_id" binding:"required"`
	OrderDate  *time.Time            `json:"order_date"`
	Notes      string                `json:"notes"`
	Items      []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Create 创建采购单
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := application.CreatePurchaseCommand{
		MerchantID: req.MerchantID,
		Notes:      req.Notes,
	}
	if req.OrderDate != nil {
		cmd.OrderDate = *req.OrderDate
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.PurchaseItemCommand{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			SKU:          item.SKU,
		})
	}

	purchase, err := h.svc.Create(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, "Failed to create purchase", err)
		return
	}

	response.Created(c, purchase)
}

// Get 获取采购单详情
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid purchase id")
		return
	}

	purchase, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get purchase", err)
		return
	}

	response.Success(c, purchase)
}

// List 分页列出采购单
func (h *PurchaseHandler) List(c *gin.Context) {
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
		h.writeError(c, "Failed to list purchases", err)
		return
	}

	response.Success(c, result)
}

// UpdateNotesRequest 更新备注请求
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes 更新采购备注
func (h *PurchaseHandler) UpdateNotes(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid purchase id")
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	purchase, err := h.svc.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.writeError(c, "Failed to update purchase notes", err)
		return
	}

	response.Success(c, purchase)
}

// Delete 删除采购单
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid purchase id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "Failed to delete purchase", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

func (h *PurchaseHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrPurchaseNotFound), errors.Is(err, merchantdomain.ErrMerchantNotFound):
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
