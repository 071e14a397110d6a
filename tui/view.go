package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/sensitive-file/internal"
)

func (m *model) View() string {
	switch m.state {
	case StateInput:
		return m.inputView()
	case StateDiscovering:
		return m.discoveringView()
	case StateProcessing:
		return m.processingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) inputView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔐 敏感文件分类工具") + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	b.WriteString(labelStyle.Render("输入要扫描的目录：") + "\n")
	b.WriteString(focusedStyle.Render(m.rootInput.View()) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("❌ "+m.err.Error()) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("操作提示：") + "\n")
	b.WriteString("  • Enter 开始扫描\n")
	b.WriteString("  • Ctrl+C 退出程序\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) discoveringView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔍 正在查找文件...") + "\n\n")
	b.WriteString(m.spinner.View() + " 正在遍历目录\n")
	b.WriteString("  扫描目录: " + filePathStyle.Render(m.root))

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) processingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔄 正在处理文件...") + "\n\n")

	b.WriteString(labelStyle.Render("处理进度：") + "\n")
	b.WriteString(m.progressBar.View() + "\n\n")

	b.WriteString(statsBoxStyle.Render(m.renderStats()) + "\n\n")

	b.WriteString(labelStyle.Render("当前文件：") + "\n")
	b.WriteString(filePathStyle.Render(m.currentFile) + "\n\n")

	if len(m.recent) > 0 {
		b.WriteString(labelStyle.Render("最近处理：") + "\n")
		for _, rec := range m.recent {
			b.WriteString(renderRecord(rec) + "\n")
		}
	}

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	switch {
	case m.summary == nil:
		b.WriteString(errorStyle.Render("❌ 扫描失败") + "\n\n")
	case m.summary.Empty():
		b.WriteString(warnStyle.Render("⚠️ Nothing Scanned: No valid files found in this folder.") + "\n\n")
	default:
		b.WriteString(successTitleStyle.Render("✅ 处理完成！") + "\n\n")
		b.WriteString(statsBoxStyle.Render(m.renderFinalStats()) + "\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("错误: "+m.err.Error()) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("按 Enter 扫描新目录，q 或 Ctrl+C 退出") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) renderStats() string {
	var b strings.Builder
	b.WriteString("📊 实时统计：\n\n")
	b.WriteString(fmt.Sprintf("  已处理：      %d / %d\n", m.processed, m.totalFiles))
	b.WriteString(fmt.Sprintf("  敏感文件：    %d\n", m.counts.sensitive))
	b.WriteString(fmt.Sprintf("  普通文档：    %d\n", m.counts.clean))
	b.WriteString(fmt.Sprintf("  无法处理：    %d\n", m.counts.unprocessable))
	if m.counts.moveFailed > 0 {
		b.WriteString(fmt.Sprintf("  移动失败：    %d\n", m.counts.moveFailed))
	}
	return b.String()
}

func (m *model) renderFinalStats() string {
	s := m.summary
	var b strings.Builder
	b.WriteString("📊 最终统计：\n\n")
	b.WriteString(fmt.Sprintf("  • 扫描目录：     %s\n", s.Root))
	b.WriteString(fmt.Sprintf("  • 总文件数：     %d 个\n", s.Total))
	b.WriteString(fmt.Sprintf("    ├─ %s：  %d 个\n", internal.FolderSensitive, s.Sensitive))
	b.WriteString(fmt.Sprintf("    ├─ %s：  %d 个\n", internal.FolderDocuments, s.Clean))
	b.WriteString(fmt.Sprintf("    └─ %s：     %d 个\n", internal.FolderOthers, s.Unprocessable))
	if s.MoveFailed > 0 {
		b.WriteString(fmt.Sprintf("  • 移动失败：     %d 个\n", s.MoveFailed))
	}
	b.WriteString(fmt.Sprintf("  • 总耗时：       %s\n", s.EndTime.Sub(s.StartTime).String()))
	if s.ReportPath != "" {
		b.WriteString(fmt.Sprintf("  • 报告：         %s\n", s.ReportPath))
	}
	return b.String()
}

func renderRecord(rec internal.FileRecord) string {
	if !rec.Moved() {
		return errorStyle.Render("  ❌ "+rec.FileName) + hintStyle.Render("  "+rec.Detail)
	}
	switch rec.Classification {
	case internal.Sensitive:
		return errorStyle.Render("  🚨 "+rec.FileName) + hintStyle.Render("  "+strings.Join(rec.Rules, ", "))
	case internal.Clean:
		return successStyle.Render("  ✅ " + rec.FileName)
	default:
		return warnStyle.Render("  ⚠️ " + rec.FileName)
	}
}
