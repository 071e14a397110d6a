// Package tesseract 基于 gosseract 的 OCR 引擎，需要本机安装 libtesseract。
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages 默认识别语言
var DefaultLanguages = []string{"eng"}

// Recognizer 每次识别创建独立的 client，可在多个 goroutine 中并发使用
type Recognizer struct {
	languages []string
}

func New(languages ...string) *Recognizer {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Recognizer{languages: languages}
}

func (r *Recognizer) Recognize(ctx context.Context, img []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("设置识别语言: %w", err)
	}

	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("加载图片: %w", err)
	}

	// 识别开始前检查一次，Text() 调用本身不可中断
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return text, nil
}
