package report

import (
	"encoding/csv"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// CSVSink 在扫描根目录写出 CSV 报告
type CSVSink struct {
	Fs  afero.Fs
	Now func() time.Time
}

func NewCSVSink(fs afero.Fs) *CSVSink {
	return &CSVSink{Fs: fs, Now: time.Now}
}

func (s *CSVSink) Write(root string, records []internal.FileRecord) (string, error) {
	path, err := uniqueReportPath(s.Fs, root, s.Now(), ".csv")
	if err != nil {
		return "", fmt.Errorf("生成报告路径失败: %w", err)
	}

	f, err := s.Fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建报告文件失败: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		f.Close()
		return "", fmt.Errorf("写入报告表头失败: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(Row(rec)); err != nil {
			f.Close()
			return "", fmt.Errorf("写入报告记录失败: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("写入报告失败: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("关闭报告文件失败: %w", err)
	}

	logger.Get().Info().Msgf("报告已生成: %s (%d 条记录)", path, len(records))
	return path, nil
}
