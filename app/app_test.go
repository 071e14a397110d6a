package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/report"
)

type stubOCR struct {
	text string
}

func (r stubOCR) Recognize(context.Context, []byte) (string, error) {
	return r.text, nil
}

func init() {
	color.NoColor = true
}

func testOptions(fs afero.Fs, root string) *ScanOptions {
	return &ScanOptions{
		Root:       root,
		Workers:    1,
		Format:     report.FormatCSV,
		Fs:         fs,
		Recognizer: stubOCR{},
	}
}

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0755))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func TestResolveRoot(t *testing.T) {
	fs := memFs(t, map[string]string{"/data/file.txt": "x"})

	root, err := ResolveRoot(fs, `  "/data"  `)
	require.NoError(t, err)
	assert.Equal(t, "/data", root)

	for _, bad := range []string{"", "   ", "/missing", "/data/file.txt"} {
		_, err := ResolveRoot(fs, bad)
		assert.ErrorIs(t, err, ErrInvalidRoot, bad)
	}
}

func TestRunScan(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/data/notes.txt":  "password: hunter2",
		"/data/readme.txt": "Hello world",
		"/data/file.xyz":   "?",
	})
	var out bytes.Buffer

	summary, err := RunScan(context.Background(), testOptions(fs, "/data"), NewConsoleSink(&out))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.NotEmpty(t, summary.RunID)
	require.NotEmpty(t, summary.ReportPath)
	assert.True(t, strings.HasPrefix(summary.ReportPath, "/data/scan_report_"))

	f, err := fs.Open(summary.ReportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, report.Columns, rows[0])
	assert.Equal(t, []string{"file.xyz", "notes.txt", "readme.txt"}, []string{rows[1][0], rows[2][0], rows[3][0]})
	assert.Equal(t, "Yes", rows[2][4])
	assert.Equal(t, "Password", rows[2][5])

	text := out.String()
	assert.Contains(t, text, "🚨 Sensitive Info Found (Password). Moving to 'Sensitive/' folder.")
	assert.Contains(t, text, "✅ No sensitive data. Moving to 'Documents/' folder.")
	assert.Contains(t, text, "⚠️ Unreadable or unsupported. Moving to 'Others/' folder.")

	second, err := RunScan(context.Background(), testOptions(fs, "/data"), internal.NopSink{})
	require.NoError(t, err)
	assert.True(t, second.Empty())
	assert.Empty(t, second.ReportPath)
}

func TestRunScan_Empty(t *testing.T) {
	fs := memFs(t, nil)

	summary, err := RunScan(context.Background(), testOptions(fs, "/data"), internal.NopSink{})
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Empty(t, summary.ReportPath)

	files, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	assert.Empty(t, files)

	var out bytes.Buffer
	PrintSummary(&out, summary)
	assert.Contains(t, out.String(), "No valid files found in this folder.")
}

func TestRunScan_InvalidRoot(t *testing.T) {
	fs := memFs(t, nil)

	_, err := RunScan(context.Background(), testOptions(fs, "/nope"), internal.NopSink{})
	assert.True(t, errors.Is(err, ErrInvalidRoot))
}

func TestRunScan_InvalidConfigTouchesNothing(t *testing.T) {
	fs := memFs(t, map[string]string{"/data/a.txt": "x"})

	opts := testOptions(fs, "/data")
	opts.Format = "xml"
	_, err := RunScan(context.Background(), opts, internal.NopSink{})
	assert.Error(t, err)

	opts = testOptions(fs, "/data")
	opts.Rules = []detector.Rule{{Name: "Bad", Pattern: "("}}
	_, err = RunScan(context.Background(), opts, internal.NopSink{})
	assert.Error(t, err)

	exists, _ := afero.Exists(fs, "/data/a.txt")
	assert.True(t, exists)
}

func TestRunDetect(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/data/notes.txt":  "password: a password: b password: c password: d",
		"/data/readme.txt": "Hello world",
		"/data/file.xyz":   "?",
	})
	var out bytes.Buffer

	n, err := RunDetect(context.Background(), testOptions(fs, "/data"), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	text := out.String()
	assert.Contains(t, text, "🚨 Sensitive Info Found:")
	assert.Contains(t, text, `   Password: ["password: a", "password: b", "password: c"] ...`)
	assert.Contains(t, text, "✅ No sensitive data found.")
	assert.Contains(t, text, "⚠️ Unsupported or unreadable file type.")

	exists, _ := afero.Exists(fs, "/data/notes.txt")
	assert.True(t, exists)
}

func TestRunPreview(t *testing.T) {
	long := strings.Repeat("a", 400)
	fs := memFs(t, map[string]string{"/data/long.txt": long})
	var out bytes.Buffer

	n, err := RunPreview(context.Background(), testOptions(fs, "/data"), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "📝 Preview:\n"+strings.Repeat("a", 300)+"...\n")
}

func TestRunPreview_Empty(t *testing.T) {
	var out bytes.Buffer

	n, err := RunPreview(context.Background(), testOptions(memFs(t, nil), "/data"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, out.String(), "No valid files found in this folder.")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 300))
	assert.Equal(t, "密码...", Preview("密码泄露", 2))
}

func TestFormatMatches(t *testing.T) {
	assert.Equal(t, `["a", "b"]`, formatMatches([]string{"a", "b"}, 3))
	assert.Equal(t, `["a", "b", "c"] ...`, formatMatches([]string{"a", "b", "c", "d"}, 3))
}

func TestConsoleSink_MoveFailed(t *testing.T) {
	var out bytes.Buffer
	sink := NewConsoleSink(&out)

	sink.Discovered("/data", 1)
	sink.FileDone(internal.FileRecord{
		FileName:       "a.txt",
		Classification: internal.Clean,
		Action:         internal.ActionMoveFailed,
		Detail:         "permission denied",
	})

	assert.Contains(t, out.String(), "[1/1] File: a.txt")
	assert.Contains(t, out.String(), "❌ Move failed: permission denied")
}
