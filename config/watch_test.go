package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ECHOFM_LOG_LEVEL=info\n"), 0o644))

	changed := make(chan struct{}, 4)
	stop, err := Watch(path, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("ECHOFM_LOG_LEVEL=debug\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	changed := make(chan struct{}, 4)
	stop, err := Watch(path, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-changed:
		t.Fatal("sibling write must not fire the callback")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchFiresOnRecreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	changed := make(chan struct{}, 4)
	stop, err := Watch(path, func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	// Editors replace the file on save rather than writing in place.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("ECHOFM_LOG_LEVEL=warn\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for recreate notification")
	}
}
