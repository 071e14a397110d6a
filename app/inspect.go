package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/pipeline"
)

const (
	// PreviewLength 预览的字符数
	PreviewLength = 300
	// MaxShownMatches 每条规则最多展示的匹配数
	MaxShownMatches = 3
)

// RunDetect 只检测不移动，逐个文件输出命中的规则，返回检查的文件数
func RunDetect(ctx context.Context, opts *ScanOptions, out io.Writer) (int, error) {
	root, err := ResolveRoot(opts.FileSystem(), opts.Root)
	if err != nil {
		return 0, err
	}
	pl, err := NewPipeline(opts, internal.NopSink{})
	if err != nil {
		return 0, err
	}

	fmt.Fprint(out, "\n🔍 Scanning files for sensitive content...\n\n")
	n, err := pl.Inspect(ctx, root, func(in pipeline.Inspection) error {
		fmt.Fprintf(out, "📄 File: %s\n", in.Task.Path)
		switch {
		case !in.Result.OK() || in.Classification == internal.Unprocessable:
			warnColor.Fprintln(out, "⚠️ Unsupported or unreadable file type.")
		case in.Findings.Empty():
			cleanColor.Fprintln(out, "✅ No sensitive data found.")
		default:
			sensitiveColor.Fprintln(out, "🚨 Sensitive Info Found:")
			for _, rule := range in.Findings.Rules() {
				fmt.Fprintf(out, "   %s: %s\n", rule, formatMatches(in.Findings.Matches(rule), MaxShownMatches))
			}
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
		return nil
	})
	if n == 0 && err == nil {
		warnColor.Fprintln(out, "No valid files found in this folder.")
	}
	return n, err
}

// RunPreview 只提取不检测，逐个文件输出文本开头
func RunPreview(ctx context.Context, opts *ScanOptions, out io.Writer) (int, error) {
	root, err := ResolveRoot(opts.FileSystem(), opts.Root)
	if err != nil {
		return 0, err
	}
	pl, err := NewPipeline(opts, internal.NopSink{})
	if err != nil {
		return 0, err
	}

	fmt.Fprint(out, "\n🔍 Scanning files...\n\n")
	n, err := pl.Inspect(ctx, root, func(in pipeline.Inspection) error {
		fmt.Fprintf(out, "📄 File: %s\n", in.Task.Path)
		if in.Result.OK() && strings.TrimSpace(in.Result.Text) != "" {
			fmt.Fprintln(out, "📝 Preview:")
			fmt.Fprintln(out, Preview(in.Result.Text, PreviewLength))
		} else {
			warnColor.Fprintln(out, "⚠️ Unsupported or unreadable file type.")
		}
		fmt.Fprintln(out, strings.Repeat("-", 50))
		return nil
	})
	if n == 0 && err == nil {
		warnColor.Fprintln(out, "No valid files found in this folder.")
	}
	return n, err
}

// Preview 截取前 n 个字符，被截断时追加省略号
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

func formatMatches(items []string, max int) string {
	shown := items
	more := ""
	if len(items) > max {
		shown = items[:max]
		more = " ..."
	}
	quoted := make([]string, len(shown))
	for i, s := range shown {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]" + more
}
