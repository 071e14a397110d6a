// Package extractor 把文件内容转换为纯文本，按扩展名分派到具体的提取器。
package extractor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// ErrTooLarge 文件超过读取上限
var ErrTooLarge = errors.New("file exceeds size limit")

// Extractor 单一格式的文本提取能力
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc 函数适配器
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

var (
	TextExtensions         = []string{".txt", ".md", ".log", ".csv"}
	WordExtensions         = []string{".docx"}
	SpreadsheetExtensions  = []string{".xlsx"}
	PresentationExtensions = []string{".pptx"}
	PDFExtensions          = []string{".pdf"}
	ImageExtensions        = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
)

type Options struct {
	// MaxFileSize 单个文件读取上限，0 表示不限制
	MaxFileSize int64
	// Timeout 单个文件提取超时，0 表示不限制
	Timeout time.Duration
	// Recognizer OCR 引擎，为 nil 时图片视为不支持
	Recognizer Recognizer
	// MaxImageWidth OCR 前缩放的最大宽度
	MaxImageWidth int
}

// Service 提取服务，持有扩展名到提取器的映射
type Service struct {
	fs      afero.Fs
	table   map[string]Extractor
	maxSize int64
	timeout time.Duration
}

// NewService 创建提取服务并注册默认格式
func NewService(fs afero.Fs, opts Options) *Service {
	s := &Service{
		fs:      fs,
		table:   make(map[string]Extractor),
		maxSize: opts.MaxFileSize,
		timeout: opts.Timeout,
	}

	text := NewTextExtractor()
	for _, ext := range TextExtensions {
		s.Register(ext, text)
	}

	pdf := NewPDFExtractor()
	for _, ext := range PDFExtensions {
		s.Register(ext, pdf)
	}

	for _, ext := range WordExtensions {
		s.Register(ext, NewOfficeExtractor(Word))
	}
	for _, ext := range SpreadsheetExtensions {
		s.Register(ext, NewOfficeExtractor(Spreadsheet))
	}
	for _, ext := range PresentationExtensions {
		s.Register(ext, NewOfficeExtractor(Presentation))
	}

	if opts.Recognizer != nil {
		img := NewImageExtractor(opts.Recognizer, opts.MaxImageWidth)
		for _, ext := range ImageExtensions {
			s.Register(ext, img)
		}
	}

	return s
}

// Register 注册或替换某个扩展名的提取器
func (s *Service) Register(ext string, e Extractor) {
	s.table[normalizeExt(ext)] = e
}

// Supports 扩展名是否有对应的提取器
func (s *Service) Supports(ext string) bool {
	_, ok := s.table[normalizeExt(ext)]
	return ok
}

// Extensions 返回已注册的扩展名，按字母排序
func (s *Service) Extensions() []string {
	exts := make([]string, 0, len(s.table))
	for ext := range s.table {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract 提取单个文件的文本
// 任何提取错误（包括提取器内部 panic）都在这里转换为 Failed，不会向上传播
func (s *Service) Extract(ctx context.Context, task internal.FileTask) Result {
	ex, ok := s.table[normalizeExt(task.Ext)]
	if !ok {
		logger.Get().Debug().Str("file", task.Path).Str("ext", task.Ext).Msg("不支持的文件类型")
		return Unsupported()
	}

	data, err := s.readFile(task.Path)
	if err != nil {
		logger.Get().Warn().Err(err).Str("file", task.Path).Msg("读取文件失败")
		return Failed(err)
	}

	hash := strconv.FormatUint(xxhash.Sum64(data), 16)

	text, err := s.run(ctx, ex, data)
	if err != nil {
		logger.Get().Warn().Err(err).Str("file", task.Path).Msg("提取文本失败")
		return Failed(err).withHash(hash)
	}

	logger.Get().Debug().
		Str("file", task.Path).
		Int("chars", len(text)).
		Str("hash", hash).
		Msg("提取文本完成")

	return Text(text).withHash(hash)
}

func (s *Service) readFile(path string) ([]byte, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("获取文件信息: %w", err)
	}

	if s.maxSize > 0 && info.Size() > s.maxSize {
		return nil, fmt.Errorf("%w: %d 字节 (限制: %d 字节)", ErrTooLarge, info.Size(), s.maxSize)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("读取文件: %w", err)
	}
	return data, nil
}

// run 在独立 goroutine 中执行提取器，受超时约束
// OCR 调用本身无法中断，超时后结果被丢弃
func (s *Service) run(ctx context.Context, ex Extractor, data []byte) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type outcome struct {
		text string
		err  error
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("extractor panic: %v", r)}
			}
		}()
		text, err := ex.Extract(ctx, data)
		done <- outcome{text: text, err: err}
	}()

	select {
	case o := <-done:
		return o.text, o.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
