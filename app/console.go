package app

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/moyu-x/sensitive-file/internal"
)

var (
	sensitiveColor = color.New(color.FgRed, color.Bold)
	cleanColor     = color.New(color.FgGreen)
	warnColor      = color.New(color.FgYellow)
	failColor      = color.New(color.FgRed)
	infoColor      = color.New(color.FgCyan)
)

// ConsoleSink 在终端逐个文件输出处理结果，可被多个工作线程同时调用
type ConsoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Discovered(root string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	infoColor.Fprintf(s.out, "\n🔍 Scanning and organizing %d files in %s...\n\n", total, root)
}

func (s *ConsoleSink) FileStarted(task internal.FileTask) {}

func (s *ConsoleSink) FileDone(rec internal.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++

	fmt.Fprintf(s.out, "📄 [%d/%d] File: %s\n", s.done, s.total, rec.FileName)
	switch rec.Classification {
	case internal.Sensitive:
		sensitiveColor.Fprintf(s.out, "🚨 Sensitive Info Found (%s). Moving to '%s/' folder.\n",
			strings.Join(rec.Rules, ", "), rec.Classification.Folder())
	case internal.Clean:
		cleanColor.Fprintf(s.out, "✅ No sensitive data. Moving to '%s/' folder.\n", rec.Classification.Folder())
	default:
		warnColor.Fprintf(s.out, "⚠️ Unreadable or unsupported. Moving to '%s/' folder.\n", rec.Classification.Folder())
	}
	if !rec.Moved() {
		failColor.Fprintf(s.out, "❌ %s: %s\n", internal.ActionMoveFailed, rec.Detail)
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 60))
}

// PrintSummary 输出运行统计
func PrintSummary(out io.Writer, summary *internal.RunSummary) {
	if summary.Empty() {
		warnColor.Fprintln(out, "No valid files found in this folder.")
		return
	}

	fmt.Fprintln(out, summary.String())
	if summary.ReportPath != "" {
		infoColor.Fprintf(out, "📊 Scan report saved to %s\n", summary.ReportPath)
	}
}
