package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"hrdash/internal/platform/crypto"
)

const corruptSuffix = ".corrupt"

// File keeps every key in one JSON object on disk. Values are sealed with the
// configured Sealer before they are written.
type File struct {
	path   string
	sealer *crypto.Sealer

	mu     sync.Mutex
	values map[string]string
}

// OpenFile loads path if it exists. A file that does not decode is moved
// aside to path+".corrupt" and the backend starts empty.
func OpenFile(ctx context.Context, path string, sealer *crypto.Sealer) (*File, error) {
	f := &File{path: path, sealer: sealer, values: map[string]string{}}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.values); err != nil {
		f.values = map[string]string{}
		moved := path + corruptSuffix
		if renameErr := os.Rename(path, moved); renameErr != nil {
			return nil, fmt.Errorf("move aside corrupt %s: %w", path, renameErr)
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Str("movedTo", moved).Msg("bookmark file unreadable, starting empty")
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	sealed, ok := f.values[key]
	f.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	value, err := f.sealer.Open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("open %q: %w", key, err)
	}
	return value, true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	sealed, err := f.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = sealed
	return f.flushLocked()
}

func (f *File) Close() error { return nil }

// flushLocked replaces the file through a temp file and rename so readers
// never see a partial write.
func (f *File) flushLocked() error {
	payload, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
