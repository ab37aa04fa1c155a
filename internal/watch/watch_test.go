package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_FileWriteTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.jsonl"), []byte("[]\n"), 0o644))

	fired := make(chan struct{}, 1)
	w, err := New(dir, 30*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.jsonl"), []byte(`["a", ["b"]]`+"\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not invoked within the timeout")
	}
}

func TestWatcher_MultipleRapidWritesDebounceToOneFire(t *testing.T) {
	dir := t.TempDir()

	var count int
	done := make(chan struct{})
	w, err := New(dir, 100*time.Millisecond, func() {
		count++
		select {
		case done <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "churn.jsonl"), []byte("[]\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not invoked within the timeout")
	}
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, 1, count, "five writes inside one debounce window should fire onChange exactly once")
}

// TestWatcher_CloseLeavesNoGoroutines verifies Close tears down the loop
// goroutine and the underlying fsnotify watcher, not just the channel.
func TestWatcher_CloseLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, err := New(dir, 20*time.Millisecond, func() {})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	time.Sleep(100 * time.Millisecond)
}
