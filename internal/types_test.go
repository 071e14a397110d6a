package internal

import (
	"strings"
	"testing"
)

func TestClassification_Folder(t *testing.T) {
	tests := []struct {
		class  Classification
		folder string
		action string
	}{
		{Sensitive, "Sensitive", "Moved to Sensitive"},
		{Clean, "Documents", "Moved to Documents"},
		{Unprocessable, "Others", "Moved to Others"},
	}

	for _, tt := range tests {
		if got := tt.class.Folder(); got != tt.folder {
			t.Errorf("%s.Folder() = %s, want %s", tt.class, got, tt.folder)
		}
		if got := tt.class.MovedAction(); got != tt.action {
			t.Errorf("%s.MovedAction() = %s, want %s", tt.class, got, tt.action)
		}
	}
}

func TestNewFileTask(t *testing.T) {
	task := NewFileTask(3, "/data/Report.PDF")
	if task.Seq != 3 || task.Ext != ".pdf" {
		t.Errorf("Unexpected task: %+v", task)
	}
	if NewFileTask(0, "/data/Makefile").Ext != "" {
		t.Error("Expected empty extension")
	}
}

func TestRunSummary_Add(t *testing.T) {
	var s RunSummary
	if !s.Empty() {
		t.Error("Expected empty summary")
	}

	s.Add(FileRecord{Classification: Sensitive, Rules: []string{"Email"}, NewPath: "/x"})
	s.Add(FileRecord{Classification: Clean, NewPath: "/y"})
	s.Add(FileRecord{Classification: Unprocessable})

	if s.Total != 3 || s.Sensitive != 1 || s.Clean != 1 || s.Unprocessable != 1 || s.MoveFailed != 1 {
		t.Errorf("Unexpected summary: %+v", s)
	}
	if !strings.Contains(s.String(), "总文件数: 3") {
		t.Errorf("Unexpected String(): %s", s.String())
	}
}
