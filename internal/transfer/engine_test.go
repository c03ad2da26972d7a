package transfer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twc/internal/transfer"
)

// pollUntilFinished drives the engine the way the UI tick does, with a
// bounded number of polls so a hung worker fails the test instead of
// blocking it.
func pollUntilFinished(t *testing.T, engine *transfer.Engine) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		engine.Poll()
		if engine.State() == transfer.StateFinished {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("engine still %s after bounded polling", engine.State())
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestEngineStartsAwaitingConfirmation(t *testing.T) {
	engine := transfer.NewEngine(transfer.CopyStrategy{}, "/nonexistent", t.TempDir())
	assert.Equal(t, transfer.StateAwaitingConfirmation, engine.State())

	_, ok := engine.Progress()
	assert.False(t, ok)
	assert.Zero(t, engine.Elapsed())
}

func TestCancelBeforeConfirm(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	source := filepath.Join(srcDir, "keep.bin")
	writeFile(t, source, []byte("payload"))

	engine := transfer.NewEngine(transfer.CopyStrategy{}, source, dstDir)
	engine.Cancel()

	assert.Equal(t, transfer.StateFinished, engine.State())

	// no filesystem mutation: destination stays empty, source stays put
	entries, err := os.ReadDir(dstDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.FileExists(t, source)

	// confirming a finished engine is a no-op
	engine.Confirm()
	assert.Equal(t, transfer.StateFinished, engine.State())
}

func TestCopyZeroByteFile(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	source := filepath.Join(srcDir, "empty.txt")
	writeFile(t, source, nil)

	engine := transfer.NewEngine(transfer.CopyStrategy{}, source, dstDir)
	engine.Confirm()
	assert.Equal(t, transfer.StateRunning, engine.State())

	pollUntilFinished(t, engine)

	assert.FileExists(t, source, "copy must leave the source in place")
	target := filepath.Join(dstDir, "empty.txt")
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCopyFilePreservesContent(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	source := filepath.Join(srcDir, "data.bin")
	payload := []byte("the quick brown fox jumps over the lazy dog")
	writeFile(t, source, payload)

	engine := transfer.NewEngine(transfer.CopyStrategy{}, source, dstDir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	copied, err := os.ReadFile(filepath.Join(dstDir, "data.bin"))
	require.NoError(t, err)
	assert.Equal(t, payload, copied)
	assert.FileExists(t, source)

	sample, ok := engine.Progress()
	require.True(t, ok)
	assert.Equal(t, uint64(len(payload)), sample.Done)
	assert.Equal(t, uint64(len(payload)), sample.Total)
	// single-file transfer: whole-op and current-file figures coincide
	assert.Equal(t, sample.Done, sample.FileDone)
	assert.Equal(t, sample.Total, sample.FileTotal)
	assert.Equal(t, "data.bin", sample.FileName)
}

func TestCopyDirectoryTree(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	tree := filepath.Join(srcDir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "nested"), 0o755))
	writeFile(t, filepath.Join(tree, "top.txt"), []byte("12345"))
	writeFile(t, filepath.Join(tree, "nested", "deep.txt"), []byte("123"))

	engine := transfer.NewEngine(transfer.CopyStrategy{}, tree, dstDir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	top, err := os.ReadFile(filepath.Join(dstDir, "tree", "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), top)

	deep, err := os.ReadFile(filepath.Join(dstDir, "tree", "nested", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("123"), deep)

	sample, ok := engine.Progress()
	require.True(t, ok)
	assert.Equal(t, uint64(8), sample.Total, "tree totals aggregate every file")
	assert.Equal(t, uint64(8), sample.Done)
}

func TestMoveFile(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	source := filepath.Join(srcDir, "moved.txt")
	payload := []byte("move me")
	writeFile(t, source, payload)

	engine := transfer.NewEngine(transfer.MoveStrategy{}, source, dstDir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	assert.NoFileExists(t, source, "move must remove the source")
	info, err := os.Stat(filepath.Join(dstDir, "moved.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size())
}

func TestMoveDirectoryTree(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	tree := filepath.Join(srcDir, "project")
	require.NoError(t, os.MkdirAll(tree, 0o755))
	writeFile(t, filepath.Join(tree, "a.txt"), []byte("aa"))

	engine := transfer.NewEngine(transfer.MoveStrategy{}, tree, dstDir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	assert.NoDirExists(t, tree)
	moved, err := os.ReadFile(filepath.Join(dstDir, "project", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("aa"), moved)
}

func TestCopyIntoOwnDirectoryLeavesSourceIntact(t *testing.T) {
	// Both panels on the same directory makes destination contain the
	// source; the copy must refuse instead of truncating the source.
	dir := t.TempDir()
	source := filepath.Join(dir, "data.txt")
	payload := []byte("irreplaceable")
	writeFile(t, source, payload)

	engine := transfer.NewEngine(transfer.CopyStrategy{}, source, dir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	content, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestCopyDirectoryIntoItselfRefuses(t *testing.T) {
	srcDir := t.TempDir()
	tree := filepath.Join(srcDir, "tree")
	require.NoError(t, os.Mkdir(tree, 0o755))
	writeFile(t, filepath.Join(tree, "f.txt"), []byte("x"))

	// destination inside the source: the walk would otherwise pick up the
	// copy it is producing
	engine := transfer.NewEngine(transfer.CopyStrategy{}, tree, tree)
	engine.Confirm()
	pollUntilFinished(t, engine)

	assert.NoDirExists(t, filepath.Join(tree, "tree"))
	assert.FileExists(t, filepath.Join(tree, "f.txt"))
}

func TestMoveIntoOwnDirectoryLeavesSourceIntact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "data.txt")
	payload := []byte("keep")
	writeFile(t, source, payload)

	engine := transfer.NewEngine(transfer.MoveStrategy{}, source, dir)
	engine.Confirm()
	pollUntilFinished(t, engine)

	content, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestWorkerFailureLooksLikeCompletion(t *testing.T) {
	// A missing source makes the worker exit early; Poll still observes a
	// plain channel close, exactly like success.
	engine := transfer.NewEngine(transfer.CopyStrategy{},
		filepath.Join(t.TempDir(), "ghost"), t.TempDir())
	engine.Confirm()
	pollUntilFinished(t, engine)

	assert.Equal(t, transfer.StateFinished, engine.State())
	_, ok := engine.Progress()
	assert.False(t, ok, "failed-before-first-sample worker left no progress")
}

func TestElapsedRunsAfterConfirm(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()
	source := filepath.Join(srcDir, "f")
	writeFile(t, source, []byte("x"))

	engine := transfer.NewEngine(transfer.CopyStrategy{}, source, dstDir)
	engine.Confirm()
	pollUntilFinished(t, engine)
	assert.Greater(t, engine.Elapsed(), time.Duration(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, transfer.Percent(0, 0))
	assert.Equal(t, 0, transfer.Percent(0, 100))
	assert.Equal(t, 0, transfer.Percent(100, 0))
	assert.Equal(t, 25, transfer.Percent(1024, 4096))
	assert.Equal(t, 100, transfer.Percent(50, 50))
}
