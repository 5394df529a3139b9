package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// kubernetesDataDir is the symlink Kubernetes swaps when a mounted secret
// is updated.
const kubernetesDataDir = "..data"

// FileToken reads the credential from a single file.
//
// The file must be a regular file (symlinks are followed) with 0600 or 0400
// permissions. Its contents are trimmed and cached until the file changes.
// With watching enabled, the parent directory is watched so both in-place
// writes and Kubernetes-style atomic symlink swaps invalidate the cache.
type FileToken struct {
	path  string
	watch bool

	mu     sync.RWMutex
	value  string
	cached bool

	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewFileToken creates a file-backed token source. The file is read once
// so that a missing or unprotected file fails at startup.
func NewFileToken(path string, watch bool) (*FileToken, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token path: %w", err)
	}

	f := &FileToken{
		path:   abs,
		watch:  watch,
		stopCh: make(chan struct{}),
	}

	if _, err := f.Token(context.Background()); err != nil {
		return nil, err
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}

		f.watcher = watcher
		go f.watchLoop()
	}

	slog.Info("file-based credential loaded",
		"path", abs,
		"watch", watch,
	)

	return f, nil
}

// Token returns the cached credential, reading the file when the cache is
// empty.
func (f *FileToken) Token(ctx context.Context) (string, error) {
	f.mu.RLock()
	if f.cached {
		v := f.value
		f.mu.RUnlock()
		return v, nil
	}
	f.mu.RUnlock()

	v, err := readTokenFile(f.path)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.value = v
	f.cached = true
	f.mu.Unlock()

	return v, nil
}

// Source returns "file".
func (f *FileToken) Source() string {
	return "file"
}

// Path returns the absolute path of the token file.
func (f *FileToken) Path() string {
	return f.path
}

// Refresh drops the cached credential so the next Token call re-reads the
// file.
func (f *FileToken) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.value = ""
	f.cached = false
}

// Close stops the file watcher.
func (f *FileToken) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.stopCh)
		if f.watcher != nil {
			err = f.watcher.Close()
		}
	})
	return err
}

func readTokenFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token file not found: %s", path)
		}
		return "", fmt.Errorf("failed to stat token file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("token path is not a regular file: %s", path)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("token file %s: %w", path, ErrEmptyToken)
	}
	return v, nil
}

// watchLoop invalidates the cache when the token file changes.
func (f *FileToken) watchLoop() {
	base := filepath.Base(f.path)

	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if name != base && name != kubernetesDataDir {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			slog.Debug("token file change detected, refreshing credential",
				"file", name,
				"op", event.Op.String(),
			)
			f.Refresh()

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("token file watcher error", "error", err)

		case <-f.stopCh:
			return
		}
	}
}
