// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// runWatcher starts w in the background and returns a stop function that
// cancels it and reports Run's error.
func runWatcher(t *testing.T, w *Watcher) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	return func() {
		t.Helper()
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return after cancellation")
		}
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher's timer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)

	for _, name := range []string{"a.svg", "b.svg", "c.svg"} {
		writeFile(t, filepath.Join(dir, name))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	for _, name := range []string{"a.svg", "b.svg", "c.svg"} {
		if !slices.Contains(collected, filepath.Join(dir, name)) {
			t.Errorf("changed set %v is missing %s", collected, name)
		}
	}
}

func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	missing := filepath.Join(first, "does-not-exist")

	fired := make(chan []string, 10)
	w, err := New(Config{
		Roots:    []string{first, missing, second, first},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := w.Roots(); len(got) != 2 {
		t.Fatalf("Roots() = %v, want the two existing roots", got)
	}
	stop := runWatcher(t, w)
	defer stop()

	target := filepath.Join(second, "icons.jmrpack", "pack.cue")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, target)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-fired:
			if slices.Contains(changed, target) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", target)
		}
	}
}

func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{dir},
		Ignore:   []string{"**/*.log"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()

	writeFile(t, filepath.Join(dir, "debug.log"))
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "home.svg"))

	select {
	case changed := <-fired:
		if slices.Contains(changed, filepath.Join(dir, "debug.log")) {
			t.Error("ignored file debug.log appeared in changed set")
		}
		if !slices.Contains(changed, filepath.Join(dir, "home.svg")) {
			t.Errorf("changed = %v, want home.svg", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{dir},
		Patterns: []string{"**/*.svg"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()

	writeFile(t, filepath.Join(dir, "notes.txt"))
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "home.svg"))

	select {
	case changed := <-fired:
		if slices.Contains(changed, filepath.Join(dir, "notes.txt")) {
			t.Error("non-matching notes.txt appeared in changed set")
		}
		if !slices.Contains(changed, filepath.Join(dir, "home.svg")) {
			t.Errorf("changed = %v, want home.svg", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	done := make(chan struct{})
	var (
		once   sync.Once
		stdout syncBuffer
	)

	w, err := New(Config{
		Roots:       []string{dir},
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &stdout,
		OnChange: func(_ context.Context, _ []string) error {
			once.Do(func() { close(done) })
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)

	writeFile(t, filepath.Join(dir, "home.svg"))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	stop()

	if !strings.Contains(stdout.String(), "\033[2J\033[H") {
		t.Errorf("stdout = %q, want ANSI clear sequence", stdout.String())
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	time.Sleep(50 * time.Millisecond)
	stop()
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()
	time.Sleep(50 * time.Millisecond)

	err = w.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Run called more than once") {
		t.Errorf("second Run() error = %v, want double-run error", err)
	}
}

func TestWatcherInvalidPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "watch", cfg: Config{Patterns: []string{"[invalid"}}, want: "invalid watch pattern"},
		{name: "ignore", cfg: Config{Ignore: []string{"{a,b"}}, want: "invalid ignore pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.cfg.Roots = []string{t.TempDir()}
			_, err := New(tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("New() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{"lucide.jmrpack/.git/HEAD", true},
		{"lucide.jmrpack/pack.cue.swp", true},
		{"lucide.jmrpack/resources.zip.tmp", true},
		{"backup~", true},
		{"sub/.DS_Store", true},
		{"lucide.jmrpack/pack.cue", false},
		{"lucide.jmrpack/resources/home.svg", false},
		{".gitignore", false},
	}

	ignores := DefaultIgnores()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := matchAny(ignores, tt.path); got != tt.ignored {
				t.Errorf("matchAny(defaults, %q) = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}
