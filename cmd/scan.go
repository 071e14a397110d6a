package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

// scanCmd 代表 scan 命令
var scanCmd = &cobra.Command{
	Use:   "scan [目录]",
	Short: "检查目录中的文件并按敏感信息分类整理",
	Long: `检查目录中的文件并按敏感信息分类整理:
1. 递归遍历目录，跳过之前生成的分类目录和报告
2. 提取每个文件的文本（图片使用 OCR）
3. 按规则检测敏感信息
4. 移动到 Sensitive/（含敏感信息）、Documents/（无敏感信息）或 Others/（无法读取）
5. 在目录下生成 scan_report_<时间>.csv 报告`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		if err := app.InitLogger(opts, false); err != nil {
			return err
		}
		if err := ensureRoot(cmd, opts); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		summary, err := app.RunScan(cmd.Context(), opts, app.NewConsoleSink(out))
		if errors.Is(err, app.ErrInvalidRoot) {
			cmd.PrintErrln("❌ Invalid folder path.")
			return err
		}
		if summary != nil {
			app.PrintSummary(out, summary)
		}
		if err != nil {
			logger.Get().Error().Err(err).Msg("扫描失败")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("format", "f", "csv", "报告格式: csv 或 sqlite")
}
