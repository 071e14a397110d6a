package internal

const (
	// 默认工作线程数，1 表示逐个文件顺序处理
	DefaultWorkers = 1

	// 最小内容长度（去除首尾空白后的字符数）
	DefaultMinContentLength = 0

	// 单个文件最大读取大小
	DefaultMaxFileSize = 50 * 1024 * 1024

	// 分类目录标记文件，存在该文件的目录不会被再次扫描
	CategoryMarkerFile = ".sensitive-file-category"

	// 报告文件名前缀
	ReportFilePrefix = "scan_report_"

	// 报告时间戳格式
	ReportTimeFormat = "20060102_150405"
)
