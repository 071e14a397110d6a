package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/config"
	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/classifier"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/extractor"
	"github.com/moyu-x/sensitive-file/pkg/extractor/tesseract"
	"github.com/moyu-x/sensitive-file/pkg/logger"
	"github.com/moyu-x/sensitive-file/pkg/pipeline"
)

// ErrInvalidRoot 扫描根目录不存在或不是目录
var ErrInvalidRoot = errors.New("invalid folder path")

type ScanOptions struct {
	Root             string
	Workers          int
	MinContentLength int
	Format           string
	NoOCR            bool
	OCRLanguages     []string
	OCRTimeout       time.Duration
	MaxImageWidth    int
	MaxFileSize      int64
	Rules            []detector.Rule
	Verbose          bool
	LogLevel         string
	LogFile          string

	// Fs 为空时使用真实文件系统
	Fs afero.Fs
	// Recognizer 指定 OCR 引擎，为空且未禁用 OCR 时使用 tesseract
	Recognizer extractor.Recognizer
}

// OptionsFromConfig 用配置文件填充选项，命令行参数随后覆盖
func OptionsFromConfig(c *config.Config) *ScanOptions {
	return &ScanOptions{
		Workers:          c.Performance.Workers,
		MinContentLength: c.Scan.MinContentLength,
		Format:           c.Report.Format,
		NoOCR:            !c.OCR.Enabled,
		OCRLanguages:     c.OCR.Languages,
		OCRTimeout:       c.OCR.Timeout,
		MaxImageWidth:    c.OCR.MaxImageWidth,
		MaxFileSize:      c.Extract.MaxFileSize,
		Rules:            c.Rules(),
		LogLevel:         c.Logging.Level,
		LogFile:          c.Logging.File,
	}
}

// InitLogger quiet 为 true 时只写日志文件
func InitLogger(opts *ScanOptions, quiet bool) error {
	logLevel := opts.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}
	return logger.Init(logLevel, opts.LogFile, quiet)
}

// FileSystem 未指定时使用真实文件系统
func (o *ScanOptions) FileSystem() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// ResolveRoot 去掉首尾空白和引号，展开 ~，转为绝对路径并确认是目录
func ResolveRoot(fs afero.Fs, root string) (string, error) {
	root = strings.Trim(strings.TrimSpace(root), `"'`)
	if root == "" {
		return "", fmt.Errorf("%w: 路径为空", ErrInvalidRoot)
	}

	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
		}
		root = filepath.Join(home, root[1:])
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	isDir, err := afero.IsDir(fs, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidRoot, abs, err)
	}
	if !isDir {
		return "", fmt.Errorf("%w: %s 不是目录", ErrInvalidRoot, abs)
	}
	return abs, nil
}

// NewPipeline 按选项装配提取、检测、分类组件
func NewPipeline(opts *ScanOptions, sink internal.ProgressSink) (*pipeline.Pipeline, error) {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = detector.DefaultRules()
	}
	det, err := detector.New(rules)
	if err != nil {
		return nil, fmt.Errorf("检测规则无效: %w", err)
	}

	recognizer := opts.Recognizer
	if recognizer == nil && !opts.NoOCR {
		recognizer = tesseract.New(opts.OCRLanguages...)
		logger.Get().Debug().Strs("languages", opts.OCRLanguages).Msg("启用 OCR")
	}

	fs := opts.FileSystem()
	ext := extractor.NewService(fs, extractor.Options{
		MaxFileSize:   opts.MaxFileSize,
		Timeout:       opts.OCRTimeout,
		Recognizer:    recognizer,
		MaxImageWidth: opts.MaxImageWidth,
	})

	return pipeline.New(pipeline.Options{
		Fs:         fs,
		Workers:    opts.Workers,
		Extractor:  ext,
		Detector:   det,
		Classifier: classifier.NewClassifierWithMinContentLength(opts.MinContentLength),
		Sink:       sink,
	}), nil
}
