package extractor

import (
	"context"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextExtractor 纯文本文件
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return DecodeText(data), nil
}

// DecodeText 按 BOM 识别 UTF-8 / UTF-16，无 BOM 时按 UTF-8 处理
// 无法解码的字节直接丢弃，不返回错误
func DecodeText(data []byte) string {
	decoder := unicode.BOMOverride(encoding.Nop.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		out = data
	}
	return strings.ToValidUTF8(string(out), "")
}
