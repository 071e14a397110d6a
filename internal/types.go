package internal

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// 分类结果
type Classification int

const (
	Unprocessable Classification = iota
	Clean
	Sensitive
)

// 分类目录名
const (
	FolderSensitive = "Sensitive"
	FolderDocuments = "Documents"
	FolderOthers    = "Others"
)

// CategoryFolders 全部分类目录，顺序固定
var CategoryFolders = []string{FolderSensitive, FolderDocuments, FolderOthers}

func (c Classification) String() string {
	switch c {
	case Sensitive:
		return "Sensitive"
	case Clean:
		return "Clean"
	default:
		return "Unprocessable"
	}
}

// Folder 返回分类对应的目标目录名
func (c Classification) Folder() string {
	switch c {
	case Sensitive:
		return FolderSensitive
	case Clean:
		return FolderDocuments
	default:
		return FolderOthers
	}
}

// MovedAction 返回成功移动后的动作描述
func (c Classification) MovedAction() string {
	return "Moved to " + c.Folder()
}

// ActionMoveFailed 移动失败时的动作描述
const ActionMoveFailed = "Move failed"

// 单个待处理文件
type FileTask struct {
	Seq  int
	Path string
	Ext  string
}

// NewFileTask 根据路径创建任务，扩展名统一转为小写
func NewFileTask(seq int, path string) FileTask {
	return FileTask{
		Seq:  seq,
		Path: path,
		Ext:  strings.ToLower(filepath.Ext(path)),
	}
}

// 审计记录，每个处理过的文件一条
type FileRecord struct {
	Seq            int
	FileName       string
	OriginalPath   string
	NewPath        string
	Extension      string
	Classification Classification
	Rules          []string
	Action         string
	Hash           string
	Detail         string
}

// SensitiveFound 是否发现敏感信息
func (r FileRecord) SensitiveFound() bool {
	return len(r.Rules) > 0
}

// Moved 文件是否已移动到分类目录
func (r FileRecord) Moved() bool {
	return r.NewPath != ""
}

// 一次运行的统计
type RunSummary struct {
	RunID         string
	Root          string
	Total         int
	Sensitive     int
	Clean         int
	Unprocessable int
	MoveFailed    int
	ReportPath    string
	StartTime     time.Time
	EndTime       time.Time
}

// Add 把一条记录计入统计
func (s *RunSummary) Add(rec FileRecord) {
	s.Total++
	if !rec.Moved() {
		s.MoveFailed++
	}
	switch rec.Classification {
	case Sensitive:
		s.Sensitive++
	case Clean:
		s.Clean++
	default:
		s.Unprocessable++
	}
}

// Empty 本次运行没有处理任何文件
func (s *RunSummary) Empty() bool {
	return s.Total == 0
}

func (s *RunSummary) String() string {
	var buf bytes.Buffer

	buf.WriteString("========== 扫描统计 ==========\n")
	buf.WriteString(fmt.Sprintf("总文件数: %d\n", s.Total))
	buf.WriteString(fmt.Sprintf("敏感文件 (%s): %d\n", FolderSensitive, s.Sensitive))
	buf.WriteString(fmt.Sprintf("普通文档 (%s): %d\n", FolderDocuments, s.Clean))
	buf.WriteString(fmt.Sprintf("无法处理 (%s): %d\n", FolderOthers, s.Unprocessable))
	buf.WriteString(fmt.Sprintf("移动失败: %d\n", s.MoveFailed))
	if !s.EndTime.IsZero() {
		buf.WriteString(fmt.Sprintf("耗时: %v\n", s.EndTime.Sub(s.StartTime).Round(time.Millisecond)))
	}
	buf.WriteString("============================")

	return buf.String()
}

// ProgressSink 前端（控制台或 TUI）接收处理进度
type ProgressSink interface {
	Discovered(root string, total int)
	FileStarted(task FileTask)
	FileDone(rec FileRecord)
}

// NopSink 丢弃所有进度
type NopSink struct{}

func (NopSink) Discovered(string, int) {}
func (NopSink) FileStarted(FileTask)    {}
func (NopSink) FileDone(FileRecord)     {}
