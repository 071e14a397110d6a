// Package pipeline 串联扫描、提取、检测、分类和归档。
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/classifier"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/extractor"
	"github.com/moyu-x/sensitive-file/pkg/filer"
	"github.com/moyu-x/sensitive-file/pkg/logger"
	"github.com/moyu-x/sensitive-file/pkg/report"
	"github.com/moyu-x/sensitive-file/pkg/scanner"
)

type Options struct {
	Fs         afero.Fs
	Workers    int
	Extractor  *extractor.Service
	Detector   *detector.Detector
	Classifier *classifier.Classifier
	Sink       internal.ProgressSink
}

type Pipeline struct {
	fs         afero.Fs
	workers    int
	walker     *scanner.FileWalker
	extractor  *extractor.Service
	detector   *detector.Detector
	classifier *classifier.Classifier
	sink       internal.ProgressSink
}

// New 未设置的组件使用默认实现（不含 OCR）
func New(opts Options) *Pipeline {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = internal.DefaultWorkers
	}
	ext := opts.Extractor
	if ext == nil {
		ext = extractor.NewService(fs, extractor.Options{})
	}
	det := opts.Detector
	if det == nil {
		det = detector.Default()
	}
	cls := opts.Classifier
	if cls == nil {
		cls = classifier.NewClassifier()
	}
	var sink internal.ProgressSink = internal.NopSink{}
	if opts.Sink != nil {
		sink = opts.Sink
	}

	return &Pipeline{
		fs:         fs,
		workers:    workers,
		walker:     scanner.NewFileWalker(fs),
		extractor:  ext,
		detector:   det,
		classifier: cls,
		sink:       sink,
	}
}

// Run 处理 root 下的全部文件，单个文件的失败只记录不中断
// ctx 取消后不再调度新文件，已处理的记录照常返回，同时返回 ctx.Err()
func (p *Pipeline) Run(ctx context.Context, root string) (*internal.RunSummary, []internal.FileRecord, error) {
	summary := &internal.RunSummary{Root: root, StartTime: time.Now()}

	tasks, err := p.walker.Collect(root)
	if err != nil {
		return nil, nil, fmt.Errorf("扫描目录失败: %w", err)
	}
	p.sink.Discovered(root, len(tasks))
	logger.Get().Info().Msgf("开始处理，文件数: %d，工作线程数: %d", len(tasks), p.workers)

	f := filer.New(p.fs, root)
	acc := report.NewAccumulator()

	err = p.each(ctx, tasks, func(task internal.FileTask) {
		if rec, ok := p.process(ctx, f, task); ok {
			acc.Record(rec)
		}
	})

	records := acc.Drain()
	for _, rec := range records {
		summary.Add(rec)
	}
	summary.EndTime = time.Now()

	logger.Get().Info().
		Int("total", summary.Total).
		Int("sensitive", summary.Sensitive).
		Int("clean", summary.Clean).
		Int("unprocessable", summary.Unprocessable).
		Int("move_failed", summary.MoveFailed).
		Dur("duration", summary.EndTime.Sub(summary.StartTime)).
		Msg("处理完成")

	return summary, records, err
}

// Inspection 只读检查的结果，不移动文件
type Inspection struct {
	Task           internal.FileTask
	Result         extractor.Result
	Findings       detector.Findings
	Classification internal.Classification
}

// Inspect 提取并检测 root 下的全部文件，按发现顺序回调，不移动任何文件
func (p *Pipeline) Inspect(ctx context.Context, root string, fn func(Inspection) error) (int, error) {
	tasks, err := p.walker.Collect(root)
	if err != nil {
		return 0, fmt.Errorf("扫描目录失败: %w", err)
	}
	p.sink.Discovered(root, len(tasks))

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		res := p.extractor.Extract(ctx, task)
		if err := ctx.Err(); err != nil {
			return i, err
		}
		var findings detector.Findings
		if p.classifier.HasContent(res) {
			findings = p.detector.Detect(res.Text)
		}
		if err := fn(Inspection{
			Task:           task,
			Result:         res,
			Findings:       findings,
			Classification: p.classifier.Classify(res, findings),
		}); err != nil {
			return i + 1, err
		}
	}
	return len(tasks), nil
}

// each 工作线程数为 1 时顺序执行，否则交给 ants 协程池
func (p *Pipeline) each(ctx context.Context, tasks []internal.FileTask, fn func(internal.FileTask)) error {
	if p.workers <= 1 {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				logger.Get().Warn().Err(err).Msg("处理已取消")
				return err
			}
			fn(task)
		}
		return ctx.Err()
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return fmt.Errorf("创建 goroutine 池失败: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			logger.Get().Warn().Err(err).Msg("处理已取消")
			break
		}
		task := task
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			fn(task)
		}); err != nil {
			wg.Done()
			logger.Get().Error().Err(err).Msg("提交任务失败")
			wg.Wait()
			return fmt.Errorf("提交任务失败: %w", err)
		}
	}
	wg.Wait()
	return ctx.Err()
}

// process 处理单个文件；提取途中运行被取消时文件留在原位，不产生记录
func (p *Pipeline) process(ctx context.Context, f *filer.Filer, task internal.FileTask) (internal.FileRecord, bool) {
	p.sink.FileStarted(task)

	rec := internal.FileRecord{
		Seq:          task.Seq,
		FileName:     filepath.Base(task.Path),
		OriginalPath: task.Path,
		Extension:    task.Ext,
	}

	res := p.extractor.Extract(ctx, task)
	if err := ctx.Err(); err != nil {
		logger.Get().Warn().Err(err).Str("path", task.Path).Msg("处理已取消，文件保持原位")
		return rec, false
	}
	rec.Hash = res.Hash

	var findings detector.Findings
	if p.classifier.HasContent(res) {
		findings = p.detector.Detect(res.Text)
	}

	class := p.classifier.Classify(res, findings)
	rec.Classification = class
	if class == internal.Sensitive {
		rec.Rules = findings.Rules()
	}
	if res.Err != nil {
		rec.Detail = res.Err.Error()
	}

	newPath, err := f.File(task.Path, class)
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", task.Path).Msg("移动文件失败")
		rec.Action = internal.ActionMoveFailed
		rec.Detail = err.Error()
	} else {
		rec.NewPath = newPath
		rec.Action = class.MovedAction()
	}

	logger.Get().Debug().
		Str("path", task.Path).
		Str("classification", class.String()).
		Strs("rules", rec.Rules).
		Msg("文件处理完成")

	p.sink.FileDone(rec)
	return rec, true
}
