package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/uptrace/bun"
)

type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// InsertTransfer writes one transfer into the given table. Every call is its own statement.
func (s *Store) InsertTransfer(ctx context.Context, table entities.TransferTable, transfer entities.Transfer) error {
	_, err := s.db.NewInsert().
		Model(toTransferDao(transfer)).
		ModelTableExpr("?", bun.Ident(string(table))).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: table [%s]: %w", entities.ErrSink, table, err)
	}

	return nil
}

// GetBridgeID returns the id of the bridge registered under name.
func (s *Store) GetBridgeID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.NewSelect().
		Model((*BridgeDao)(nil)).
		Column("id").
		Where("name = ?", name).
		Limit(1).
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: [%s]", entities.ErrBridgeNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("querying bridge id for [%s]: %w", name, err)
	}

	return id, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
