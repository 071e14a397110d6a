package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/extractor"
	"github.com/moyu-x/sensitive-file/pkg/report"
)

const EnvPrefix = "SENSITIVE_FILE"

type Config struct {
	Performance struct {
		Workers int
	}
	Scan struct {
		MinContentLength int `mapstructure:"min_content_length"`
	}
	Extract struct {
		MaxFileSize int64 `mapstructure:"max_file_size"`
	}
	OCR struct {
		Enabled       bool
		Languages     []string
		Timeout       time.Duration
		MaxImageWidth int `mapstructure:"max_image_width"`
	}
	Report struct {
		Format string
	}
	Logging struct {
		Level string
		File  string
	}
	Detector struct {
		Rules []detector.Rule
	}
}

// Load 读取配置，cfgFile 为空时按默认路径查找，找不到配置文件时使用默认值
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("$HOME/.sensitive-file")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/sensitive-file")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("performance.workers", internal.DefaultWorkers)
	v.SetDefault("scan.min_content_length", internal.DefaultMinContentLength)
	v.SetDefault("extract.max_file_size", internal.DefaultMaxFileSize)
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.timeout", 2*time.Minute)
	v.SetDefault("ocr.max_image_width", extractor.DefaultMaxImageWidth)
	v.SetDefault("report.format", report.FormatCSV)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

// Validate 检查取值范围，规则集在这里编译一次以便尽早报错
func (c *Config) Validate() error {
	if c.Performance.Workers < 1 {
		return fmt.Errorf("performance.workers 必须大于 0，当前为 %d", c.Performance.Workers)
	}
	if c.Scan.MinContentLength < 0 {
		return fmt.Errorf("scan.min_content_length 不能为负数，当前为 %d", c.Scan.MinContentLength)
	}
	if c.Extract.MaxFileSize < 0 {
		return fmt.Errorf("extract.max_file_size 不能为负数，当前为 %d", c.Extract.MaxFileSize)
	}
	switch strings.ToLower(c.Report.Format) {
	case report.FormatCSV, report.FormatSQLite:
	default:
		return fmt.Errorf("不支持的报告格式: %s", c.Report.Format)
	}
	if _, err := detector.New(c.Rules()); err != nil {
		return fmt.Errorf("检测规则无效: %w", err)
	}
	return nil
}

// Rules 配置中未定义规则时使用默认规则集
func (c *Config) Rules() []detector.Rule {
	if len(c.Detector.Rules) == 0 {
		return detector.DefaultRules()
	}
	return c.Detector.Rules
}
