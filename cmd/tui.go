package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [目录]",
	Short: "以交互界面运行扫描",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		// 控制台日志会破坏界面，只写日志文件
		if err := app.InitLogger(opts, true); err != nil {
			return err
		}
		return tui.Run(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringP("format", "f", "csv", "报告格式: csv 或 sqlite")
}
