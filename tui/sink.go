package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/sensitive-file/internal"
)

// programSink 把处理进度转成消息发给界面
type programSink struct {
	p *tea.Program
}

func newProgramSink(p *tea.Program) *programSink {
	return &programSink{p: p}
}

func (s *programSink) Discovered(root string, total int) {
	s.p.Send(discoveredMsg{root: root, total: total})
}

func (s *programSink) FileStarted(task internal.FileTask) {
	s.p.Send(fileStartedMsg{task: task})
}

func (s *programSink) FileDone(rec internal.FileRecord) {
	s.p.Send(fileDoneMsg{record: rec})
}
