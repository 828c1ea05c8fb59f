package pebbledb

import (
	"errors"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/cockroachdb/pebble/v2"
	"path/filepath"
	"time"
)

const lastProcessedDateKey = 0x00

type Store struct {
	db *pebble.DB
}

func NewProcessorStore(storeDir string) (*Store, error) {
	db, err := pebble.Open(filepath.Join(storeDir, "wormhole-ingester-store"), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble db: %w", err)
	}

	return &Store{db: db}, nil
}

func (ps *Store) SetLastProcessedDate(date time.Time) error {
	key := []byte{lastProcessedDateKey}
	value := []byte(date.UTC().Format(time.DateOnly))

	err := ps.db.Set(key, value, pebble.Sync)
	if err != nil {
		return fmt.Errorf("setting last processed date: %w", err)
	}

	return nil
}

func (ps *Store) GetLastProcessedDate() (time.Time, error) {
	key := []byte{lastProcessedDateKey}

	value, closer, err := ps.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return time.Time{}, entities.ErrStoreEntityNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last processed date: %w", err)
	}
	defer closer.Close()

	date, err := time.Parse(time.DateOnly, string(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date [%s]: %w", string(value), err)
	}

	return date, nil
}

func (ps *Store) Close() error {
	return ps.db.Close()
}
