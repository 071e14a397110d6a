package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

type teaModel struct {
	m *model
}

func (tm teaModel) Init() tea.Cmd {
	return tm.m.Init()
}

func (tm teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := tm.m.Update(msg)
	return tm, cmd
}

func (tm teaModel) View() string {
	return tm.m.View()
}

func Run(ctx context.Context, opts *app.ScanOptions) error {
	logger.Get().Info().Msg("启动 TUI 界面")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := initialModel(ctx, opts)
	p := tea.NewProgram(teaModel{m: &m}, tea.WithAltScreen(), tea.WithContext(ctx))
	m.sink = newProgramSink(p)

	_, err := p.Run()
	if err != nil && err != tea.ErrProgramKilled {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
		return err
	}
	logger.Get().Info().Msg("TUI 正常退出")
	return nil
}
