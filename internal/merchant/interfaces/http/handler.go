// Package http 供货商管理的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/shopsystem/internal/merchant/application"
	"github.com/wyfcoding/shopsystem/internal/merchant/domain"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/query"
	"github.com/wyfcoding/shopsystem/pkg/response"
)

// MerchantHandler HTTP 处理器
type MerchantHandler struct {
	svc *application.MerchantService
}

// 创建 HTTP 处理器实例
func NewMerchantHandler(svc *application.MerchantService) *MerchantHandler {
	return &MerchantHandler{svc: svc}
}

// 注册路由
func (h *MerchantHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/merchants")
	{
		api.POST("", h.Create)       // 创建供货商
		api.GET("", h.List)          // 分页列出供货商
		api.GET("/:id", h.Get)       // 获取供货商详情
		api.PUT("/:id", h.Update)    // 更新供货商
		api.DELETE("/:id", h.Delete) // 删除供货商
	}
}

// MerchantRequest 供货商请求
type MerchantRequest struct {
	Name               string           `json:"name" binding:"required"`
	Phone              string           `json:"phone"`
	Address            string           `json:"address"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance"`
}

// Create 创建供货商
func (h *MerchantHandler) Create(c *gin.Context) {
	var req MerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	merchant, err := h.svc.Create(c.Request.Context(), application.MerchantCommand{
		Name:               req.Name,
		Phone:              req.Phone,
		Address:            req.Address,
		OutstandingBalance: req.OutstandingBalance,
	})
	if err != nil {
		h.writeError(c, "Failed to create merchant", err)
		return
	}

	response.Created(c, merchant)
}

// Get 获取供货商详情
func (h *MerchantHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid merchant id")
		return
	}

	merchant, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "Failed to get merchant", err)
		return
	}

	response.Success(c, merchant)
}

// List 分页列出供货商
func (h *MerchantHandler) List(c *gin.Context) {
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
		h.writeError(c, "Failed to list merchants", err)
		return
	}

	response.Success(c, result)
}

// Update 更新供货商
func (h *MerchantHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid merchant id")
		return
	}

	var req MerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	merchant, err := h.svc.Update(c.Request.Context(), id, application.MerchantCommand{
		Name:               req.Name,
		Phone:              req.Phone,
		Address:            req.Address,
		OutstandingBalance: req.OutstandingBalance,
	})
	if err != nil {
		h.writeError(c, "Failed to update merchant", err)
		return
	}

	response.Success(c, merchant)
}

// Delete 删除供货商
func (h *MerchantHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid merchant id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, "Failed to delete merchant", err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

func (h *MerchantHandler) writeError(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrMerchantNotFound) {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, domain.ErrMerchantInUse) {
		response.Error(c, http.StatusConflict, err.Error())
		return
	}
	logger.Error(c.Request.Context(), msg, "error", err)
	response.Error(c, http.StatusInternalServerError, err.Error())
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
