package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// ScanRecord SQLite 报告中的一行
type ScanRecord struct {
	ID             int64     `gorm:"primaryKey"`
	RunID          string    `gorm:"index;not null"`
	Seq            int       `gorm:"not null"`
	FileName       string    `gorm:"not null"`
	OriginalPath   string    `gorm:"not null"`
	NewPath        string    `gorm:"column:new_path"`
	FileType       string    `gorm:"column:file_type"`
	SensitiveFound bool      `gorm:"not null"`
	SensitiveTypes string    `gorm:"column:sensitive_types"`
	ActionTaken    string    `gorm:"not null"`
	ContentHash    string    `gorm:"index"`
	Detail         string    `gorm:"column:detail"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}

// SQLiteSink 在扫描根目录写出 SQLite 报告
type SQLiteSink struct {
	RunID string
	Now   func() time.Time
}

func NewSQLiteSink(runID string) *SQLiteSink {
	return &SQLiteSink{RunID: runID, Now: time.Now}
}

func (s *SQLiteSink) Write(root string, records []internal.FileRecord) (string, error) {
	now := s.Now()
	path, err := uniqueReportPath(afero.NewOsFs(), root, now, ".db")
	if err != nil {
		return "", fmt.Errorf("生成报告路径失败: %w", err)
	}

	db, err := openReport(path)
	if err != nil {
		return "", err
	}
	defer closeReport(db)

	if err := db.AutoMigrate(&ScanRecord{}); err != nil {
		return "", fmt.Errorf("创建报告表失败: %w", err)
	}

	rows := make([]ScanRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ScanRecord{
			RunID:          s.RunID,
			Seq:            rec.Seq,
			FileName:       rec.FileName,
			OriginalPath:   rec.OriginalPath,
			NewPath:        rec.NewPath,
			FileType:       rec.Extension,
			SensitiveFound: rec.SensitiveFound(),
			SensitiveTypes: strings.Join(rec.Rules, ", "),
			ActionTaken:    rec.Action,
			ContentHash:    rec.Hash,
			Detail:         rec.Detail,
			CreatedAt:      now,
		})
	}

	if len(rows) > 0 {
		if err := db.CreateInBatches(rows, 100).Error; err != nil {
			return "", fmt.Errorf("写入报告记录失败: %w", err)
		}
	}

	logger.Get().Info().Msgf("报告已生成: %s (%d 条记录)", path, len(rows))
	return path, nil
}

// ReadSQLite 读取 SQLite 报告，按发现顺序返回
func ReadSQLite(path string) ([]ScanRecord, error) {
	db, err := openReport(path)
	if err != nil {
		return nil, err
	}
	defer closeReport(db)

	var rows []ScanRecord
	if err := db.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("读取报告失败: %w", err)
	}
	return rows, nil
}

func openReport(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开报告数据库失败")
		return nil, fmt.Errorf("打开报告数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db, nil
}

func closeReport(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Get().Error().Err(err).Msg("关闭报告数据库失败")
	}
}
