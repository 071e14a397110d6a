package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// FileWalker 遍历扫描根目录
// 分类目录（含标记文件，或根目录下同名的一级目录）和报告文件会被跳过
type FileWalker struct {
	Fs            afero.Fs
	IncludeHidden bool
}

func NewFileWalker(fs afero.Fs) *FileWalker {
	return &FileWalker{
		Fs:            fs,
		IncludeHidden: true,
	}
}

func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	root = filepath.Clean(root)

	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Debug().Err(err).Str("path", path).Msg("访问路径出错")
			return nil
		}

		if info.IsDir() {
			if path == root {
				return nil
			}
			if w.IsCategoryDir(root, path) {
				logger.Get().Debug().Str("path", path).Msg("跳过分类目录")
				return filepath.SkipDir
			}
			if !w.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Dir(path) == root && IsReportFile(info.Name()) {
			return nil
		}
		if !w.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		return callback(path, info)
	})
}

// Collect 按遍历顺序收集所有待处理文件
func (w *FileWalker) Collect(root string) ([]internal.FileTask, error) {
	var tasks []internal.FileTask

	err := w.Walk(root, func(path string, info os.FileInfo) error {
		tasks = append(tasks, internal.NewFileTask(len(tasks), path))
		return nil
	})
	if err != nil {
		logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", root)
		return nil, err
	}

	logger.Get().Info().Msgf("文件统计完成，共找到 %d 个文件", len(tasks))
	return tasks, nil
}

// IsCategoryDir 目录是否为之前运行生成的分类目录
// 只看标记文件和根目录下的一级目录名，树中更深处同名的普通目录照常扫描
func (w *FileWalker) IsCategoryDir(root, dir string) bool {
	if filepath.Dir(dir) == filepath.Clean(root) && isCategoryName(filepath.Base(dir)) {
		return true
	}

	exists, err := afero.Exists(w.Fs, filepath.Join(dir, internal.CategoryMarkerFile))
	if err != nil {
		logger.Get().Debug().Err(err).Str("path", dir).Msg("检查标记文件失败")
		return false
	}
	return exists
}

// IsReportFile 是否为本工具生成的报告文件
func IsReportFile(name string) bool {
	if !strings.HasPrefix(name, internal.ReportFilePrefix) {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".csv" || ext == ".db" || strings.Contains(name, ".db-")
}

func isCategoryName(name string) bool {
	for _, folder := range internal.CategoryFolders {
		if name == folder {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
