package domain

import (
	"errors"
	"fmt"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("product not found")

// ErrCategoryNotFound 分类不存在
var ErrCategoryNotFound = errors.New("category not found")

// DuplicateSKUError 货号重复
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("the sku %q is already in use", e.SKU)
}
