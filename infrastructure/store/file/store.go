// Package file keeps the last processed date in a single plain text file.
package file

import (
	"errors"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// legacyLayout is how older checkpoint files were written (a date with a zero time component).
const legacyLayout = "2006-01-02T15:04:05"

type Store struct {
	path string
}

// NewProcessorStore creates the directory holding the checkpoint file if it does not exist.
func NewProcessorStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating checkpoint directory: %w", err)
	}

	return &Store{path: path}, nil
}

// SetLastProcessedDate writes to a temporary file first and renames it over the checkpoint,
// so a crash never leaves a half written date behind.
func (fs *Store) SetLastProcessedDate(date time.Time) error {
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary checkpoint file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(date.UTC().Format(time.DateOnly)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing checkpoint: %w", err)
	}

	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replacing checkpoint file: %w", err)
	}

	return nil
}

func (fs *Store) GetLastProcessedDate() (time.Time, error) {
	content, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, entities.ErrStoreEntityNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading checkpoint file: %w", err)
	}

	value := strings.TrimSpace(string(content))
	if value == "" {
		return time.Time{}, entities.ErrStoreEntityNotFound
	}

	for _, layout := range []string{time.DateOnly, legacyLayout} {
		date, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("parsing checkpoint [%s]: unsupported date format", value)
}

func (fs *Store) Close() error {
	return nil
}
