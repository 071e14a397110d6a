package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/sensitive-file/app"
	"github.com/moyu-x/sensitive-file/internal"
)

type State int

const (
	StateInput State = iota
	StateDiscovering
	StateProcessing
	StateComplete
)

// 处理界面保留的最近文件数
const recentLimit = 8

type counts struct {
	sensitive     int
	clean         int
	unprocessable int
	moveFailed    int
}

type model struct {
	ctx              context.Context
	opts             app.ScanOptions
	sink             internal.ProgressSink
	state            State
	root             string
	totalFiles       int
	processed        int
	lastLogProcessed int
	counts           counts
	currentFile      string
	recent           []internal.FileRecord
	summary          *internal.RunSummary
	startTime        time.Time
	rootInput        textinput.Model
	progressBar      progress.Model
	spinner          spinner.Model
	err              error
}

func initialModel(ctx context.Context, opts *app.ScanOptions) model {
	rootInput := textinput.New()
	rootInput.Placeholder = "请输入要扫描的目录（按回车开始）"
	rootInput.Prompt = "> "
	rootInput.PromptStyle = focusedPromptStyle
	rootInput.TextStyle = textStyle
	rootInput.SetValue(opts.Root)
	rootInput.Focus()

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		ctx:         ctx,
		opts:        *opts,
		sink:        internal.NopSink{},
		state:       StateInput,
		rootInput:   rootInput,
		progressBar: progressBar,
		spinner:     s,
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// reset 回到输入界面，保留上次输入的目录
func (m *model) reset() {
	m.state = StateInput
	m.totalFiles = 0
	m.processed = 0
	m.lastLogProcessed = 0
	m.counts = counts{}
	m.currentFile = ""
	m.recent = nil
	m.summary = nil
	m.err = nil
	m.rootInput.Focus()
}
