package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"defaults", PageRequest{}, 1, 20},
		{"negative page", PageRequest{Page: -3, Size: 10}, 1, 10},
		{"size clamped", PageRequest{Page: 2, Size: 500}, 2, 100},
		{"valid", PageRequest{Page: 3, Size: 50}, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, n.Page)
			assert.Equal(t, tt.wantSize, n.Size)
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Size: 20}.Offset())
	assert.Equal(t, 40, PageRequest{Page: 3, Size: 20}.Offset())
}

func TestOrderClauseWhitelist(t *testing.T) {
	sortable := map[string]string{"name": "name", "price": "selling_price"}

	assert.Equal(t, "name ASC", OrderClause(Options{SortField: "name"}, sortable))
	assert.Equal(t, "selling_price DESC", OrderClause(Options{SortField: "price", SortDesc: true}, sortable))

	// 不在白名单的排序键一律忽略
	assert.Equal(t, "", OrderClause(Options{SortField: "password"}, sortable))
	assert.Equal(t, "", OrderClause(Options{SortField: "name; DROP TABLE products"}, sortable))
	assert.Equal(t, "", OrderClause(Options{}, sortable))
}

func TestNewPagedResult(t *testing.T) {
	result := NewPagedResult([]int{1, 2, 3}, 42, PageRequest{Page: 2, Size: 3})
	assert.Equal(t, int64(42), result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.Size)
	assert.Len(t, result.Items, 3)

	empty := NewPagedResult[string](nil, 0, PageRequest{})
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}
