package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dailydsa/errs"
)

// FileStore keeps one JSON file per record under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w, create data dir %s: %w", errs.ErrStorageIO, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(record string) string {
	return filepath.Join(f.dir, record+".json")
}

func (f *FileStore) Load(_ context.Context, record string, v any) error {
	data, err := os.ReadFile(f.path(record))
	if errors.Is(err, fs.ErrNotExist) {
		return errs.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("%w, read %s: %w", errs.ErrStorageIO, record, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}

// Save writes to a temp file in the same directory and renames it over the
// record so readers never see a partial file.
func (f *FileStore) Save(_ context.Context, record string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}

	tmp, err := os.CreateTemp(f.dir, record+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w, create temp for %s: %w", errs.ErrStorageIO, record, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w, write %s: %w", errs.ErrStorageIO, record, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w, close %s: %w", errs.ErrStorageIO, record, err)
	}
	if err := os.Rename(tmpName, f.path(record)); err != nil {
		return fmt.Errorf("%w, replace %s: %w", errs.ErrStorageIO, record, err)
	}
	return nil
}
