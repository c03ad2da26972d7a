package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twc/internal/watch"
)

func waitForEvent(t *testing.T, w *watch.Watcher, dir string) bool {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-w.Events():
			if event.Dir == dir {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func TestWatcherEmitsRefreshHintOnCreate(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New()
	require.NoError(t, err)
	defer w.Close()

	w.Watch("", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))

	assert.True(t, waitForEvent(t, w, dir), "expected a refresh hint for %s", dir)
}

func TestWatcherRetargets(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()

	w, err := watch.New()
	require.NoError(t, err)
	defer w.Close()

	w.Watch("", oldDir)
	w.Watch(oldDir, newDir)

	require.NoError(t, os.WriteFile(filepath.Join(newDir, "f"), []byte("x"), 0o644))
	assert.True(t, waitForEvent(t, w, newDir))
}

func TestSharedDirectoryStaysWatchedWhenOneSideLeaves(t *testing.T) {
	shared, elsewhere := t.TempDir(), t.TempDir()

	w, err := watch.New()
	require.NoError(t, err)
	defer w.Close()

	// both panels start on the same directory, then one navigates away
	w.Watch("", shared)
	w.Watch("", shared)
	w.Watch(shared, elsewhere)

	require.NoError(t, os.WriteFile(filepath.Join(shared, "f"), []byte("x"), 0o644))
	assert.True(t, waitForEvent(t, w, shared),
		"the panel still on the shared directory must keep its refresh hints")
}

func TestWatchUnreadableDirectoryDegrades(t *testing.T) {
	w, err := watch.New()
	require.NoError(t, err)
	defer w.Close()

	// must not panic or error out of band; the panel just gets no hints
	w.Watch("", filepath.Join(t.TempDir(), "missing"))
}
