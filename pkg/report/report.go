// Package report 汇总处理记录并写出审计报告。
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
)

// 报告格式
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Columns 报告列，CSV 表头与 SQLite 表字段一一对应
var Columns = []string{
	"File Name",
	"Original Path",
	"New Path",
	"File Type",
	"Sensitive Found",
	"Sensitive Types",
	"Action Taken",
	"Content Hash",
}

// Sink 把一次运行的记录写成报告，返回报告路径
type Sink interface {
	Write(root string, records []internal.FileRecord) (string, error)
}

// NewSink 根据格式创建报告输出，runID 写入 SQLite 报告
func NewSink(format string, fs afero.Fs, runID string) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewCSVSink(fs), nil
	case FormatSQLite, "db":
		return NewSQLiteSink(runID), nil
	default:
		return nil, fmt.Errorf("不支持的报告格式: %s", format)
	}
}

// Row 一条记录对应的报告行
func Row(rec internal.FileRecord) []string {
	found := "No"
	if rec.SensitiveFound() {
		found = "Yes"
	}
	return []string{
		rec.FileName,
		rec.OriginalPath,
		rec.NewPath,
		rec.Extension,
		found,
		strings.Join(rec.Rules, ", "),
		rec.Action,
		rec.Hash,
	}
}

// FileName scan_report_YYYYmmdd_HHMMSS<ext>
func FileName(t time.Time, ext string) string {
	return internal.ReportFilePrefix + t.Format(internal.ReportTimeFormat) + ext
}

// uniqueReportPath 同一秒内多次运行时追加序号
func uniqueReportPath(fs afero.Fs, root string, t time.Time, ext string) (string, error) {
	base := filepath.Join(root, FileName(t, ext))
	exists, err := afero.Exists(fs, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
