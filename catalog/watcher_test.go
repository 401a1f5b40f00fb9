package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherNotifiesOnTableChange(t *testing.T) {
	dir := writeDataDir(t)

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	changed := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	writeFile(t, dir, RatesFile, `decade,birth_rate,marriage_rate
1950s,2.0,0.8
`)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the table change")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := writeDataDir(t)

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	changed := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0644))

	select {
	case <-changed:
		t.Fatal("watcher fired for a non-catalog file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestWatcherStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataDir(t)
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Stop())
	// The watch loop exits once the event channel closes.
	time.Sleep(50 * time.Millisecond)
}
