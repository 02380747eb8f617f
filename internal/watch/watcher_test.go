package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startWatcher(t *testing.T, opts Options) (changes <-chan []string, stop func()) {
	t.Helper()

	ch := make(chan []string, 10)
	opts.Logger = log.New(io.Discard)
	opts.OnChange = func(_ context.Context, changed []string) error {
		ch <- changed
		return nil
	}

	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return ch, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes, stop := startWatcher(t, Options{Dir: dir, Debounce: 100 * time.Millisecond})

	for _, name := range []string{"a.js", "b.js", "c.css"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-changes:
		assert.Equal(t, []string{"a.js", "b.js", "c.css"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	select {
	case changed := <-changes:
		t.Errorf("unexpected second callback with %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	stop()
}

func TestWatcherFiltersPaths(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))

	changes, stop := startWatcher(t, Options{
		Dir:      dir,
		Patterns: []string{"src/**"},
		Ignore:   []string{"dist/**"},
		Debounce: 50 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "main.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.js"), []byte("x"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{"src/main.js"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	stop()
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changes, stop := startWatcher(t, Options{Dir: dir, Patterns: []string{"**/*.js"}, Debounce: 50 * time.Millisecond})

	sub := filepath.Join(dir, "components")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// give the watcher time to register the new directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "heading.js"), []byte("x"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-changes:
			if assert.NotEmpty(t, changed) && changed[len(changed)-1] == "components/heading.js" {
				stop()
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change in new directory")
		}
	}
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir(), Patterns: []string{"src/[a"}})
	require.Error(t, err)
}

func TestIgnoredDir(t *testing.T) {
	w := &Watcher{ignores: append(append([]string{}, defaultIgnores...), "dist/**")}

	tests := []struct {
		rel  string
		want bool
	}{
		{"dist", true},
		{"node_modules", true},
		{"src/node_modules", true},
		{".git", true},
		{"src", false},
		{"src/components", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ignoredDir(tt.rel))
		})
	}
}
