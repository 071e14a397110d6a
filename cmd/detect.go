package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/sensitive-file/app"
)

var detectCmd = &cobra.Command{
	Use:   "detect [目录]",
	Short: "只检测敏感信息，不移动文件",
	Args:  cobra.MaximumNArgs(1),
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

		_, err = app.RunDetect(cmd.Context(), opts, cmd.OutOrStdout())
		return err
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [目录]",
	Short: "预览每个文件提取到的文本开头，不移动文件",
	Args:  cobra.MaximumNArgs(1),
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

		_, err = app.RunPreview(cmd.Context(), opts, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(previewCmd)
}
