package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/sensitive-file/internal"
	"github.com/moyu-x/sensitive-file/pkg/classifier"
	"github.com/moyu-x/sensitive-file/pkg/detector"
	"github.com/moyu-x/sensitive-file/pkg/extractor"
)

const root = "/data"

type emptyOCR struct{}

func (emptyOCR) Recognize(context.Context, []byte) (string, error) {
	return "", nil
}

type recordingSink struct {
	mu         sync.Mutex
	discovered int
	started    int
	done       []internal.FileRecord
}

func (s *recordingSink) Discovered(_ string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered = total
}

func (s *recordingSink) FileStarted(internal.FileTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *recordingSink) FileDone(rec internal.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = append(s.done, rec)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func setupFs(t *testing.T, files map[string][]byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0755))
	for name, data := range files {
		path := filepath.Join(root, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, data, 0644))
	}
	return fs
}

func newPipeline(fs afero.Fs, workers int, sink internal.ProgressSink) *Pipeline {
	return New(Options{
		Fs:        fs,
		Workers:   workers,
		Extractor: extractor.NewService(fs, extractor.Options{Recognizer: emptyOCR{}}),
		Sink:      sink,
	})
}

func scenarioFiles(t *testing.T) map[string][]byte {
	return map[string][]byte{
		"notes.txt":  []byte("password: hunter2"),
		"readme.txt": []byte("Hello world"),
		"photo.png":  pngBytes(t),
		"file.xyz":   []byte("whatever"),
	}
}

func TestRun_Scenarios(t *testing.T) {
	fs := setupFs(t, scenarioFiles(t))
	sink := &recordingSink{}

	summary, records, err := newPipeline(fs, 1, sink).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Sensitive)
	assert.Equal(t, 1, summary.Clean)
	assert.Equal(t, 2, summary.Unprocessable)
	assert.Equal(t, 0, summary.MoveFailed)
	assert.False(t, summary.Empty())

	byName := make(map[string]internal.FileRecord)
	for i, rec := range records {
		assert.Equal(t, i, rec.Seq)
		byName[rec.FileName] = rec
	}

	notes := byName["notes.txt"]
	assert.Equal(t, internal.Sensitive, notes.Classification)
	assert.Equal(t, []string{detector.RulePassword}, notes.Rules)
	assert.Equal(t, "/data/Sensitive/notes.txt", notes.NewPath)
	assert.Equal(t, "Moved to Sensitive", notes.Action)
	assert.True(t, notes.SensitiveFound())
	assert.NotEmpty(t, notes.Hash)

	readme := byName["readme.txt"]
	assert.Equal(t, internal.Clean, readme.Classification)
	assert.Empty(t, readme.Rules)
	assert.Equal(t, "/data/Documents/readme.txt", readme.NewPath)
	assert.Equal(t, "Moved to Documents", readme.Action)

	photo := byName["photo.png"]
	assert.Equal(t, internal.Unprocessable, photo.Classification)
	assert.Equal(t, "/data/Others/photo.png", photo.NewPath)

	xyz := byName["file.xyz"]
	assert.Equal(t, internal.Unprocessable, xyz.Classification)
	assert.Equal(t, "/data/Others/file.xyz", xyz.NewPath)
	assert.Equal(t, ".xyz", xyz.Extension)
	assert.Equal(t, "Moved to Others", xyz.Action)
	assert.Empty(t, xyz.Detail)

	for _, name := range []string{"notes.txt", "readme.txt", "photo.png", "file.xyz"} {
		exists, _ := afero.Exists(fs, filepath.Join(root, name))
		assert.False(t, exists, name)
	}

	assert.Equal(t, 4, sink.discovered)
	assert.Equal(t, 4, sink.started)
	assert.Len(t, sink.done, 4)
}

func TestRun_SecondRunIsEmpty(t *testing.T) {
	fs := setupFs(t, scenarioFiles(t))
	p := newPipeline(fs, 1, nil)

	_, _, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	summary, records, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Empty(t, records)
}

func TestRun_EmptyRoot(t *testing.T) {
	fs := setupFs(t, nil)

	summary, records, err := newPipeline(fs, 1, nil).Run(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Empty(t, records)

	for _, folder := range internal.CategoryFolders {
		exists, _ := afero.Exists(fs, filepath.Join(root, folder))
		assert.False(t, exists, folder)
	}
}

func TestRun_NestedFilesFlattened(t *testing.T) {
	fs := setupFs(t, map[string][]byte{
		"a/report.txt": []byte("plain"),
		"b/report.txt": []byte("contact bob@example.org"),
		"c/report.txt": []byte("more plain"),
	})

	_, records, err := newPipeline(fs, 1, nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "/data/Documents/report.txt", records[0].NewPath)
	assert.Equal(t, "/data/Sensitive/report.txt", records[1].NewPath)
	assert.Equal(t, []string{detector.RuleEmail}, records[1].Rules)
	assert.Equal(t, "/data/Documents/report_1.txt", records[2].NewPath)
}

func TestRun_Parallel(t *testing.T) {
	files := make(map[string][]byte)
	for i := 0; i < 50; i++ {
		content := "nothing here"
		if i%5 == 0 {
			content = fmt.Sprintf("api_key=%08d-abcdef", i)
		}
		files[fmt.Sprintf("dir%d/same.txt", i)] = []byte(content)
	}
	fs := setupFs(t, files)
	sink := &recordingSink{}

	summary, records, err := newPipeline(fs, 8, sink).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 50, summary.Total)
	assert.Equal(t, 10, summary.Sensitive)
	assert.Equal(t, 40, summary.Clean)
	assert.Len(t, sink.done, 50)

	seen := make(map[string]bool)
	for i, rec := range records {
		assert.Equal(t, i, rec.Seq)
		assert.False(t, seen[rec.NewPath], rec.NewPath)
		seen[rec.NewPath] = true
	}
}

func TestRun_MoveFailure(t *testing.T) {
	base := setupFs(t, map[string][]byte{"notes.txt": []byte("password: hunter2")})
	fs := afero.NewReadOnlyFs(base)

	summary, records, err := newPipeline(fs, 1, nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, internal.Sensitive, rec.Classification)
	assert.Equal(t, []string{detector.RulePassword}, rec.Rules)
	assert.Empty(t, rec.NewPath)
	assert.Equal(t, internal.ActionMoveFailed, rec.Action)
	assert.NotEmpty(t, rec.Detail)
	assert.Equal(t, 1, summary.MoveFailed)

	exists, _ := afero.Exists(base, "/data/notes.txt")
	assert.True(t, exists)
}

func TestRun_Cancelled(t *testing.T) {
	fs := setupFs(t, scenarioFiles(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		summary, records, err := newPipeline(fs, workers, nil).Run(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
		assert.True(t, summary.Empty())
		assert.Empty(t, records)
	}
}

func TestRun_CancelledDuringExtraction(t *testing.T) {
	fs := setupFs(t, map[string][]byte{
		"readme.txt":  []byte("Hello world"),
		"secret.slow": []byte("password: hunter2"),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := extractor.NewService(fs, extractor.Options{})
	svc.Register(".slow", extractor.ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		cancel()
		<-ctx.Done()
		return string(data), nil
	}))
	sink := &recordingSink{}
	p := New(Options{Fs: fs, Workers: 1, Extractor: svc, Sink: sink})

	summary, records, err := p.Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, records, 1)
	assert.Equal(t, "readme.txt", records[0].FileName)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Unprocessable)
	assert.Len(t, sink.done, 1)

	exists, _ := afero.Exists(fs, "/data/secret.slow")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "/data/Others/secret.slow")
	assert.False(t, exists)
}

func TestInspect_CancelledDuringExtraction(t *testing.T) {
	fs := setupFs(t, map[string][]byte{"secret.slow": []byte("password: hunter2")})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := extractor.NewService(fs, extractor.Options{})
	svc.Register(".slow", extractor.ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		cancel()
		<-ctx.Done()
		return string(data), nil
	}))

	called := false
	n, err := New(Options{Fs: fs, Extractor: svc}).Inspect(ctx, root, func(Inspection) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.False(t, called)
}

func TestRun_CorruptPDFGoesToOthers(t *testing.T) {
	fs := setupFs(t, map[string][]byte{"broken.pdf": []byte("%PDF-1.4 not really a pdf")})

	summary, records, err := newPipeline(fs, 1, nil).Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, internal.Unprocessable, rec.Classification)
	assert.Equal(t, "/data/Others/broken.pdf", rec.NewPath)
	assert.Equal(t, "Moved to Others", rec.Action)
	assert.NotEmpty(t, rec.Detail)
	assert.Equal(t, 1, summary.Unprocessable)
}

func TestRun_MinContentLength(t *testing.T) {
	fs := setupFs(t, map[string][]byte{"short.txt": []byte("pw=1")})
	p := New(Options{
		Fs:         fs,
		Classifier: classifierWithMin(10),
	})

	_, records, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, internal.Unprocessable, records[0].Classification)
	assert.Equal(t, "/data/Others/short.txt", records[0].NewPath)
}

func TestInspect_DoesNotMove(t *testing.T) {
	fs := setupFs(t, scenarioFiles(t))

	var got []Inspection
	n, err := newPipeline(fs, 1, nil).Inspect(context.Background(), root, func(in Inspection) error {
		got = append(got, in)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.Len(t, got, 4)

	for _, in := range got {
		exists, _ := afero.Exists(fs, in.Task.Path)
		assert.True(t, exists, in.Task.Path)
		if filepath.Base(in.Task.Path) == "notes.txt" {
			assert.Equal(t, internal.Sensitive, in.Classification)
			assert.Equal(t, []string{"password: hunter2"}, in.Findings.Matches(detector.RulePassword))
		}
	}

	exists, _ := afero.Exists(fs, filepath.Join(root, internal.FolderSensitive))
	assert.False(t, exists)
}

func classifierWithMin(n int) *classifier.Classifier {
	return classifier.NewClassifierWithMinContentLength(n)
}
