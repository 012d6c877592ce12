package persist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// File stores each key as <dir>/<escaped key>.json. Writes go through a temp file
// and rename so a failed write never leaves a torn value behind.
type File struct {
	dir   string
	quota int64
}

func NewFile(dir string, quotaBytes int64) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &File{dir: dir, quota: quotaBytes}, nil
}

// path query-escapes key so distinct keys never share a file.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

func (f *File) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, true, nil
}

func (f *File) Save(_ context.Context, key string, value []byte) error {
	dst := f.path(key)
	if f.quota > 0 {
		used, err := f.usage(dst)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > f.quota {
			return fmt.Errorf("save %q: quota %d bytes: %w", key, f.quota, ErrStorageFull)
		}
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return classify(key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return classify(key, err)
	}
	if err := tmp.Close(); err != nil {
		return classify(key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return classify(key, err)
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// usage sums stored values, excluding the file about to be replaced.
func (f *File) usage(exclude string) (int64, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read data directory: %w", err)
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if filepath.Join(f.dir, e.Name()) == exclude {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func classify(key string, err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("save %q: %v: %w", key, err, ErrStorageFull)
	}
	return fmt.Errorf("failed to write %q: %w", key, err)
}
