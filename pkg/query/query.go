// Package query 提供各列表接口复用的分页、过滤与排序参数
package query

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest 分页参数
type PageRequest struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// Normalize 规整分页参数：page 至少为 1，size 限制在 [1, 100]
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset 计算 SQL 偏移量
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Size
}

// Limit 计算 SQL 限制
func (p PageRequest) Limit() int {
	return p.Normalize().Size
}

// Options 列表查询选项：搜索、金额区间、日期区间与排序
type Options struct {
	// 通用搜索词（各列表自行决定匹配哪些列）
	Search string `form:"search"`
	// 名称搜索（采购列表用于按商户名过滤）
	Name string `form:"name"`
	// 金额下限
	MinAmount *decimal.Decimal `form:"min_amount"`
	// 金额上限
	MaxAmount *decimal.Decimal `form:"max_amount"`
	// 日期区间
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	// 排序键（必须命中列表声明的白名单，否则忽略）
	SortField string `form:"sort_field"`
	// 是否倒序
	SortDesc bool `form:"sort_desc"`
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// NewPagedResult 构造分页结果
func NewPagedResult[T any](items []T, total int64, page PageRequest) PagedResult[T] {
	n := page.Normalize()
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:      items,
		TotalCount: total,
		Page:       n.Page,
		Size:       n.Size,
	}
}

// OrderClause 将排序键映射为 ORDER BY 子句。
// sortable 是 API 排序键到列名的白名单；未命中返回空串，调用方退回默认排序。
// 列名永远来自白名单，用户输入不会进入 SQL。
func OrderClause(opts Options, sortable map[string]string) string {
	if opts.SortField == "" {
		return ""
	}
	column, ok := sortable[opts.SortField]
	if !ok {
		return ""
	}
	if opts.SortDesc {
		return column + " DESC"
	}
	return column + " ASC"
}
