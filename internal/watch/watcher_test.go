package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWatcher(t *testing.T, rec *recorder) *Watcher {
	t.Helper()
	w, err := New(rec.record, WithDelay(30*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.yaml")
	writeFile(t, path, "title: a\n")

	rec := &recorder{}
	w := newWatcher(t, rec)
	require.NoError(t, w.Add(path))
	assert.True(t, w.Watching(path))

	for i := 0; i < 5; i++ {
		writeFile(t, path, "title: b\n")
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	got := rec.snapshot()
	assert.Less(t, len(got), 5, "burst coalesces")
	for _, p := range got {
		assert.Equal(t, path, p)
	}
	assert.EqualValues(t, len(got), w.Changes())
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.yaml")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "x")

	rec := &recorder{}
	w := newWatcher(t, rec)
	require.NoError(t, w.Add(path))

	writeFile(t, other, "y")
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatcherFollowsAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.toml")
	writeFile(t, path, "a")

	rec := &recorder{}
	w := newWatcher(t, rec)
	require.NoError(t, w.Add(path))

	tmp := filepath.Join(dir, ".lesson.toml.swp")
	writeFile(t, tmp, "b")
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, rec.snapshot()[0])
}

func TestWatcherAddErrors(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t, &recorder{})

	assert.ErrorIs(t, w.Add(filepath.Join(dir, "missing")), ErrPathNotExist)
	assert.ErrorIs(t, w.Add(dir), ErrIsDir)
	assert.ErrorIs(t, w.Remove(filepath.Join(dir, "missing")), ErrNotWatching)
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	rec := &recorder{}
	w := newWatcher(t, rec)
	require.NoError(t, w.Add(a))
	require.NoError(t, w.Add(b))
	require.NoError(t, w.Add(a), "adding twice is a no-op")

	require.NoError(t, w.Remove(a))
	assert.False(t, w.Watching(a))
	assert.True(t, w.Watching(b))

	writeFile(t, a, "changed")
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	writeFile(t, b, "changed")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, b, rec.snapshot()[0])
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yaml")
	writeFile(t, path, "a")

	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Add(path), ErrClosed)
}
