package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
	"github.com/moyu-x/sensitive-file/pkg/report"
)

// RunScan 整理 opts.Root 下的文件并写出报告
// 没有处理任何文件时不写报告，summary.Empty() 为 true
func RunScan(ctx context.Context, opts *ScanOptions, sink internal.ProgressSink) (*internal.RunSummary, error) {
	fs := opts.FileSystem()

	root, err := ResolveRoot(fs, opts.Root)
	if err != nil {
		return nil, err
	}

	pl, err := NewPipeline(opts, sink)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	out, err := report.NewSink(opts.Format, fs, runID)
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Str("run_id", runID).Msgf("开始扫描: %s", root)

	summary, records, runErr := pl.Run(ctx, root)
	if summary == nil {
		return nil, runErr
	}
	summary.RunID = runID

	if summary.Empty() {
		logger.Get().Warn().Msgf("目录中没有可处理的文件: %s", root)
		return summary, runErr
	}

	path, err := out.Write(root, records)
	if err != nil {
		return summary, fmt.Errorf("写入报告失败: %w", err)
	}
	summary.ReportPath = path

	return summary, runErr
}
