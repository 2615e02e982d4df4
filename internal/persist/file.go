package persist

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// FileSlot stores the payload as a single file. Expiry is judged from the
// file's modification time.
type FileSlot struct {
	path      string
	retention time.Duration // zero keeps forever
	maxBytes  int           // zero means unlimited
}

// NewFileSlot creates a slot backed by the file at path. The parent
// directory is created on first save.
func NewFileSlot(path string, retention time.Duration, maxBytes int) *FileSlot {
	return &FileSlot{path: path, retention: retention, maxBytes: maxBytes}
}

func (s *FileSlot) Name() string { return s.path }

func (s *FileSlot) Load() ([]byte, bool, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if s.retention > 0 && time.Since(info.ModTime()) > s.retention {
		return nil, false, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileSlot) Save(data []byte) error {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return ErrTooLarge
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	// Write-then-rename so a crash mid-write leaves the previous payload
	// intact rather than a truncated one.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
