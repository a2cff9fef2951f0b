// Package pdf 将销售单据渲染为 80mm 小票 PDF
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wyfcoding/shopsystem/internal/order/domain"
)

// 80mm 热敏纸，左右各留 4mm
const (
	pageWidth  = 80.0
	pageMargin = 4.0
	lineHeight = 4.5
)

// ReceiptRenderer 小票渲染器
type ReceiptRenderer struct {
	outputDir string
}

// NewReceiptRenderer 构造函数
func NewReceiptRenderer(outputDir string) *ReceiptRenderer {
	return &ReceiptRenderer{outputDir: outputDir}
}

// Render 渲染单据为 PDF，返回文件路径
func (r *ReceiptRenderer) Render(ctx context.Context, invoice *domain.Invoice) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice output dir: %w", err)
	}

	// 高度按行数估算，fpdf 不支持不定长页面
	height := 70.0 + float64(len(invoice.Lines))*lineHeight
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: pageWidth, Ht: height},
	})
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	contentWidth := pageWidth - 2*pageMargin

	// 抬头
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(contentWidth, 6, invoice.StoreName, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 7)
	if invoice.StoreAddress != "" {
		doc.CellFormat(contentWidth, 3.5, invoice.StoreAddress, "", 1, "C", false, 0, "")
	}
	if invoice.StorePhone != "" {
		doc.CellFormat(contentWidth, 3.5, "Tel: "+invoice.StorePhone, "", 1, "C", false, 0, "")
	}
	r.separator(doc, contentWidth)

	// 单据信息
	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(contentWidth, lineHeight, fmt.Sprintf("Invoice #%d", invoice.OrderID), "", 1, "L", false, 0, "")
	doc.CellFormat(contentWidth, lineHeight, "Date: "+invoice.OrderDate.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	doc.CellFormat(contentWidth, lineHeight, "Customer: "+invoice.CustomerName, "", 1, "L", false, 0, "")
	doc.CellFormat(contentWidth, lineHeight, "Cashier: "+invoice.CashierName, "", 1, "L", false, 0, "")
	r.separator(doc, contentWidth)

	// 明细表：品名 / 数量 / 单价 / 折扣 / 小计
	nameW := contentWidth * 0.34
	qtyW := contentWidth * 0.12
	priceW := contentWidth * 0.18
	discW := contentWidth * 0.14
	totalW := contentWidth * 0.22

	doc.SetFont("Helvetica", "B", 7)
	doc.CellFormat(nameW, lineHeight, "Item", "", 0, "L", false, 0, "")
	doc.CellFormat(qtyW, lineHeight, "Qty", "", 0, "R", false, 0, "")
	doc.CellFormat(priceW, lineHeight, "Price", "", 0, "R", false, 0, "")
	doc.CellFormat(discW, lineHeight, "Disc", "", 0, "R", false, 0, "")
	doc.CellFormat(totalW, lineHeight, "Total", "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 7)
	for _, line := range invoice.Lines {
		doc.CellFormat(nameW, lineHeight, truncate(line.ProductName, 18), "", 0, "L", false, 0, "")
		doc.CellFormat(qtyW, lineHeight, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		doc.CellFormat(priceW, lineHeight, line.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		doc.CellFormat(discW, lineHeight, line.Discount.StringFixed(0)+"%", "", 0, "R", false, 0, "")
		doc.CellFormat(totalW, lineHeight, line.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	r.separator(doc, contentWidth)

	// 金额汇总
	doc.SetFont("Helvetica", "", 8)
	r.amountRow(doc, contentWidth, "Total", invoice.TotalAmount.StringFixed(2))
	r.amountRow(doc, contentWidth, "Discount", invoice.TotalDiscount.StringFixed(2))
	doc.SetFont("Helvetica", "B", 9)
	r.amountRow(doc, contentWidth, "Amount Due", invoice.FinalAmount.StringFixed(2))
	r.separator(doc, contentWidth)

	doc.SetFont("Helvetica", "I", 7)
	doc.CellFormat(contentWidth, lineHeight, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	path := filepath.Join(r.outputDir, fmt.Sprintf("invoice-%d-%d.pdf", invoice.OrderID, time.Now().Unix()))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write invoice pdf: %w", err)
	}
	return path, nil
}

func (r *ReceiptRenderer) separator(doc *fpdf.Fpdf, width float64) {
	doc.Ln(1)
	x, y := doc.GetXY()
	doc.SetDashPattern([]float64{1, 1}, 0)
	doc.Line(x, y, x+width, y)
	doc.SetDashPattern([]float64{}, 0)
	doc.Ln(2)
}

func (r *ReceiptRenderer) amountRow(doc *fpdf.Fpdf, width float64, label, value string) {
	doc.CellFormat(width*0.55, lineHeight, label, "", 0, "L", false, 0, "")
	doc.CellFormat(width*0.45, lineHeight, value, "", 1, "R", false, 0, "")
}

// truncate 按字符数截断，避免把多字节字符切成非法 UTF-8
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}
