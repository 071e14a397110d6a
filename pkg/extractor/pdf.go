package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// PDFExtractor 使用 ledongthuc/pdf 逐页提取纯文本
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开 PDF: %w", err)
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// 单页失败只跳过该页
		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.Get().Debug().Err(err).Int("page", i).Msg("提取 PDF 页面文本失败")
			continue
		}
		b.WriteString(content)
	}

	return b.String(), nil
}
