package watch

import (
	"context"
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

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_ReportsOptionsFileChanges(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := New([]string{".clang", ".clang_complete"}, 50*time.Millisecond, rec.record, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))
	require.NoError(t, w.Add(dir))
	w.Start(context.Background())
	defer func() { _ = w.Close() }()

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), []byte("int x;"), 0644))

	target := filepath.Join(dir, ".clang")
	require.NoError(t, os.WriteFile(target, []byte("-DA"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("-DB"), 0644))

	assert.Eventually(t, func() bool {
		return len(rec.get()) > 0
	}, 3*time.Second, 20*time.Millisecond)

	// the two writes are coalesced
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{target}, rec.get())
}

func TestWatcher_CloseStopsProcessing(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w, err := New([]string{".clang"}, 20*time.Millisecond, rec.record, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))
	w.Start(context.Background())
	require.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".clang"), []byte("-DA"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.get())
}

func TestWatcher_AddMissingDirectory(t *testing.T) {
	w, err := New(nil, 0, func(string) {}, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
}
