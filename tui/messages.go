package tui

import (
	"github.com/moyu-x/sensitive-file/internal"
)

type discoveredMsg struct {
	root  string
	total int
}

type fileStartedMsg struct {
	task internal.FileTask
}

type fileDoneMsg struct {
	record internal.FileRecord
}

type scanCompleteMsg struct {
	summary *internal.RunSummary
	err     error
}

type errMsg error
