package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sensitive-file",
	Short: "按内容中的敏感信息整理文件",
	Long: `Sensitive File 是一个命令行工具，检查目录中每个文件的文本内容，
按是否包含敏感信息（密码、邮箱、账号、API Key）整理文件。

主要功能:
- 提取 txt、pdf、docx/xlsx/pptx 的文本，图片通过 OCR 识别
- 使用可配置的正则规则检测敏感信息
- 将文件移动到扫描目录下的 Sensitive/、Documents/、Others/
- 生成 CSV 或 SQLite 格式的审计报告`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认查找 $HOME/.sensitive-file/config.yaml)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "并发处理的工作线程数 (默认读取配置，1 为顺序处理)")
	rootCmd.PersistentFlags().Int("min-length", -1, "文本去除首尾空白后的最小字符数，不足视为无法处理")
	rootCmd.PersistentFlags().Bool("no-ocr", false, "禁用图片 OCR，图片直接归入 Others")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().String("log-file", "", "日志文件路径")
}

// loadOptions 读取配置文件，再用命令行参数覆盖
func loadOptions(cmd *cobra.Command, args []string) (*app.ScanOptions, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	opts := app.OptionsFromConfig(c)

	flags := cmd.Flags()
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("min-length") {
		opts.MinContentLength, _ = flags.GetInt("min-length")
	}
	if flags.Changed("no-ocr") {
		opts.NoOCR, _ = flags.GetBool("no-ocr")
	}
	if flags.Changed("log-file") {
		opts.LogFile, _ = flags.GetString("log-file")
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		opts.Format = f.Value.String()
	}
	opts.Verbose, _ = flags.GetBool("verbose")

	if opts.Workers < 1 {
		return nil, fmt.Errorf("--workers 必须大于 0")
	}
	if opts.MinContentLength < 0 {
		return nil, fmt.Errorf("--min-length 不能为负数")
	}

	if len(args) > 0 {
		opts.Root = args[0]
	}
	return opts, nil
}

// promptRoot 未通过参数指定目录时从标准输入读取
func promptRoot(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "📁 Enter the path to the folder containing files: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func ensureRoot(cmd *cobra.Command, opts *app.ScanOptions) error {
	if opts.Root != "" {
		return nil
	}
	root, err := promptRoot(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	opts.Root = root
	return nil
}
