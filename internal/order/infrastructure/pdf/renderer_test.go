package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
)

func TestRenderWritesReceiptPDF(t *testing.T) {
	dir := t.TempDir()
	renderer := NewReceiptRenderer(dir)

	invoice := &domain.Invoice{
		OrderID:      42,
		OrderDate:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		CustomerName: "Alice",
		CashierName:  "bob",
		StoreName:    "Ziad Store",
		StoreAddress: "Main St 1",
		StorePhone:   "555-0101",
		Lines: []domain.InvoiceLine{
			{ProductName: "Widget", Quantity: 3, UnitPrice: decimal.NewFromInt(100), Discount: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(300)},
			{ProductName: "A very long product name that gets cut", Quantity: 1, UnitPrice: decimal.NewFromInt(50), Subtotal: decimal.NewFromInt(50)},
		},
		TotalAmount:   decimal.NewFromInt(350),
		TotalDiscount: decimal.NewFromInt(30),
		FinalAmount:   decimal.NewFromInt(320),
	}

	path, err := renderer.Render(context.Background(), invoice)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PDF 魔数
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:5]) == "%PDF-")
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 18))
	assert.Equal(t, "exactly-eighteen-!", truncate("exactly-eighteen-!", 18))
	assert.Equal(t, "a-longer-product-.", truncate("a-longer-product-name", 18))

	// 多字节品名按字符截断，不产生非法 UTF-8
	got := truncate("精选咖啡豆大包装特惠礼盒装组合套装", 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "精选咖啡.", got)
}

func TestRenderCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "invoices")
	renderer := NewReceiptRenderer(dir)

	invoice := &domain.Invoice{OrderID: 1, OrderDate: time.Now(), StoreName: "Ziad Store"}
	path, err := renderer.Render(context.Background(), invoice)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
