package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/h2non/filetype"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxImageWidth OCR 前的最大宽度，超过则等比缩小
const DefaultMaxImageWidth = 3000

// ErrNotImage 文件头不是图片
var ErrNotImage = errors.New("content is not a recognized image")

// Recognizer OCR 引擎，输入 PNG 编码的图片
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// ImageExtractor 解码图片后交给 OCR 引擎识别
type ImageExtractor struct {
	recognizer Recognizer
	maxWidth   int
}

func NewImageExtractor(recognizer Recognizer, maxWidth int) *ImageExtractor {
	return &ImageExtractor{recognizer: recognizer, maxWidth: maxWidth}
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if !filetype.IsImage(data) {
		return "", ErrNotImage
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("解码图片: %w", err)
	}

	if e.maxWidth > 0 && img.Bounds().Dx() > e.maxWidth {
		// 高度传 0 保持宽高比
		img = resize.Resize(uint(e.maxWidth), 0, img, resize.Lanczos3)
	}

	// 统一转为 PNG (无损) 喂给 OCR
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("编码 %s 图片: %w", format, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := e.recognizer.Recognize(ctx, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("OCR 识别: %w", err)
	}
	return text, nil
}
