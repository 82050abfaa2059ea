package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "mahami.db")
	require.NoError(t, os.WriteFile(db, []byte("a"), 0o644))

	var calls atomic.Int32
	w, err := New(db, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(db, []byte{byte('a' + i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "mahami.db")

	var calls atomic.Int32
	w, err := New(db, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(3 * debounceDelay)
	assert.Zero(t, calls.Load())
}

func TestRelevant(t *testing.T) {
	w := &Watcher{base: "mahami.db"}
	assert.True(t, w.relevant("/x/mahami.db"))
	assert.True(t, w.relevant("/x/mahami.db-wal"))
	assert.True(t, w.relevant("/x/mahami.db-journal"))
	assert.False(t, w.relevant("/x/mahami.dbx"))
	assert.False(t, w.relevant("/x/other.db"))
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "mahami.db"), func() {})
	assert.Error(t, err)
}
