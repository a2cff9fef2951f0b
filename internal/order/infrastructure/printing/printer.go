// Package printing 通过系统打印服务送打小票
package printing

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/wyfcoding/shopsystem/pkg/logger"
)

// LPPrinter 调用 lp 送打。printer 为空时跳过送打，仅保留 PDF。
type LPPrinter struct {
	printer string
}

// NewLPPrinter 构造函数
func NewLPPrinter(printer string) *LPPrinter {
	return &LPPrinter{printer: printer}
}

// Print 送打指定文件
func (p *LPPrinter) Print(ctx context.Context, path string) error {
	if p.printer == "" {
		logger.Info(ctx, "No printer configured, skipping print", "path", path)
		return nil
	}

	cmd := exec.CommandContext(ctx, "lp", "-d", p.printer, path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("lp failed: %w: %s", err, out)
	}
	logger.Info(ctx, "Invoice queued for printing", "printer", p.printer, "path", path)
	return nil
}
