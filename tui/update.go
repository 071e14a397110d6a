package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/logger"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case StateInput:
			if msg.String() == "enter" {
				return m.handleEnterKey()
			}
		case StateComplete:
			switch msg.String() {
			case "enter":
				m.reset()
				return m, nil
			case "q", "esc":
				return m, tea.Quit
			}
			return m, nil
		default:
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case spinner.TickMsg:
		if m.state == StateDiscovering {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case discoveredMsg:
		m.root = msg.root
		m.totalFiles = msg.total
		m.state = StateProcessing
		logger.Get().Info().Msgf("找到 %d 个文件: %s", msg.total, msg.root)
		return m, nil

	case fileStartedMsg:
		m.currentFile = msg.task.Path
		return m, nil

	case fileDoneMsg:
		m.recordFile(msg.record)
		m.logProgress()
		if m.totalFiles > 0 {
			percent := float64(m.processed) / float64(m.totalFiles)
			cmds = append(cmds, m.progressBar.SetPercent(percent))
		}
		return m, tea.Batch(cmds...)

	case scanCompleteMsg:
		m.state = StateComplete
		m.summary = msg.summary
		m.err = msg.err
		m.rootInput.Blur()
		m.logFinalStats()
		return m, nil

	case errMsg:
		m.reset()
		m.err = msg
		return m, nil

	case progress.FrameMsg:
		model, cmd := m.progressBar.Update(msg)
		m.progressBar = model.(progress.Model)
		return m, cmd
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.rootInput, cmd = m.rootInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleEnterKey() (tea.Model, tea.Cmd) {
	root, err := app.ResolveRoot(m.opts.FileSystem(), m.rootInput.Value())
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.root = root
	m.state = StateDiscovering
	m.startTime = time.Now()
	m.rootInput.Blur()

	return m, tea.Batch(
		m.spinner.Tick,
		m.startScan(root),
	)
}

// startScan 在后台执行扫描，进度由 sink 以消息形式送回
// 扫描开始前的错误（如配置无效）回到输入界面
func (m *model) startScan(root string) tea.Cmd {
	opts := m.opts
	opts.Root = root
	ctx := m.ctx
	sink := m.sink
	return func() tea.Msg {
		summary, err := app.RunScan(ctx, &opts, sink)
		if summary == nil && err != nil {
			return errMsg(err)
		}
		return scanCompleteMsg{summary: summary, err: err}
	}
}

func (m *model) recordFile(rec internal.FileRecord) {
	m.processed++
	switch rec.Classification {
	case internal.Sensitive:
		m.counts.sensitive++
	case internal.Clean:
		m.counts.clean++
	default:
		m.counts.unprocessable++
	}
	if !rec.Moved() {
		m.counts.moveFailed++
	}

	m.recent = append(m.recent, rec)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	width := msg.Width

	m.rootInput.Width = width - 10
	m.progressBar.Width = width - 10
}

func (m *model) logProgress() {
	if m.totalFiles == 0 {
		return
	}

	const logInterval = 100
	if m.processed-m.lastLogProcessed < logInterval && m.processed < m.totalFiles {
		return
	}

	percent := float64(m.processed) / float64(m.totalFiles) * 100
	logger.Get().Info().Msgf("处理进度: %d/%d (%.1f%%) - 敏感: %d, 普通: %d, 无法处理: %d",
		m.processed, m.totalFiles, percent, m.counts.sensitive, m.counts.clean, m.counts.unprocessable)

	m.lastLogProcessed = m.processed
}

func (m *model) logFinalStats() {
	if m.err != nil && !errors.Is(m.err, app.ErrInvalidRoot) {
		logger.Get().Error().Err(m.err).Msg("扫描失败")
	}
	if m.summary != nil {
		logger.Get().Info().Msg(m.summary.String())
	}
}
