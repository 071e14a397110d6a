// Package filer 把文件移动到扫描根目录下的分类目录。
package filer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// ErrMove 移动失败，源文件保持原位
var ErrMove = errors.New("move failed")

const maxRenameAttempts = 10000

const markerContent = "This folder is managed by sensitive-file. Files inside are skipped on later scans.\n"

// Filer 文件归档器
// 同一时刻只执行一个移动，保证同名文件不会并发写入同一目标
type Filer struct {
	Fs   afero.Fs
	root string
	mu   sync.Mutex
}

func New(fs afero.Fs, root string) *Filer {
	return &Filer{Fs: fs, root: filepath.Clean(root)}
}

// CategoryDir 分类对应的目录
func (f *Filer) CategoryDir(class internal.Classification) string {
	return filepath.Join(f.root, class.Folder())
}

// File 移动文件到分类目录，返回新路径
// 目标已存在时追加序号重命名，不覆盖已有文件
func (f *Filer) File(path string, class internal.Classification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := f.CategoryDir(class)
	if err := f.ensureCategoryDir(dir); err != nil {
		return "", fmt.Errorf("%w: 创建分类目录 %s: %w", ErrMove, dir, err)
	}

	target, err := f.uniquePath(filepath.Join(dir, filepath.Base(path)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMove, err)
	}

	if err := f.moveFile(path, target); err != nil {
		return "", fmt.Errorf("%w: %s -> %s: %w", ErrMove, path, target, err)
	}

	logger.Get().Debug().
		Str("source", path).
		Str("destination", target).
		Str("category", class.Folder()).
		Msg("文件移动完成")

	return target, nil
}

// ensureCategoryDir 创建分类目录并写入标记文件，重复调用无副作用
func (f *Filer) ensureCategoryDir(dir string) error {
	if err := f.Fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	marker := filepath.Join(dir, internal.CategoryMarkerFile)
	exists, err := afero.Exists(f.Fs, marker)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := afero.WriteFile(f.Fs, marker, []byte(markerContent), 0644); err != nil {
		return fmt.Errorf("写入标记文件: %w", err)
	}
	logger.Get().Info().Str("path", dir).Msg("创建分类目录")
	return nil
}

// uniquePath 目标已存在时生成 name_1.ext、name_2.ext ...
func (f *Filer) uniquePath(target string) (string, error) {
	exists, err := afero.Exists(f.Fs, target)
	if err != nil {
		return "", fmt.Errorf("检查文件是否存在失败: %w", err)
	}
	if !exists {
		return target, nil
	}

	ext := filepath.Ext(target)
	baseName := strings.TrimSuffix(target, ext)

	for i := 1; i <= maxRenameAttempts; i++ {
		newPath := fmt.Sprintf("%s_%d%s", baseName, i, ext)
		exists, err := afero.Exists(f.Fs, newPath)
		if err != nil {
			return "", fmt.Errorf("检查文件是否存在失败: %w", err)
		}
		if !exists {
			logger.Get().Debug().
				Str("original_path", target).
				Str("new_path", newPath).
				Msg("文件名冲突，自动重命名")
			return newPath, nil
		}
	}

	return "", fmt.Errorf("无法生成唯一文件名，已尝试 %d 次", maxRenameAttempts)
}

// moveFile 使用 rename 移动，失败时（可能是跨卷移动）复制后删除
// 任一步骤失败都会清理目标文件，源文件保持原位
func (f *Filer) moveFile(src, dst string) error {
	if err := f.Fs.Rename(src, dst); err == nil {
		return nil
	} else {
		logger.Get().Debug().
			Err(err).
			Str("source", src).
			Str("destination", dst).
			Msg("直接重命名失败，尝试复制后删除")
	}

	if err := f.copyFile(src, dst); err != nil {
		_ = f.Fs.Remove(dst)
		return err
	}

	if err := f.Fs.Remove(src); err != nil {
		_ = f.Fs.Remove(dst)
		return fmt.Errorf("删除原文件失败: %w", err)
	}
	return nil
}

func (f *Filer) copyFile(src, dst string) error {
	sourceFile, err := f.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("获取源文件信息失败: %w", err)
	}

	destFile, err := f.Fs.Create(dst)
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %w", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return fmt.Errorf("复制文件内容失败: %w", err)
	}

	if err := destFile.Close(); err != nil {
		return fmt.Errorf("关闭目标文件失败: %w", err)
	}

	return f.Fs.Chmod(dst, info.Mode())
}
