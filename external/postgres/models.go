package postgres

import (
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/uptrace/bun"
)

// TransferDao maps to the txs table. The same layout is used for txs_transport.
type TransferDao struct {
	bun.BaseModel `bun:"table:txs"`

	FromAddress   *string  `bun:"from_address"`
	FromChain     string   `bun:"from_chain"`
	FromHash      *string  `bun:"from_hash"`
	FromToken     *string  `bun:"from_token"`
	FromAmount    *float64 `bun:"from_amount"`
	FromTimestamp *int64   `bun:"from_timestamp"`
	ToAddress     string   `bun:"to_address"`
	ToChain       string   `bun:"to_chain"`
	ToHash        *string  `bun:"to_hash"`
	ToTimestamp   *int64   `bun:"to_timestamp"`
	ToToken       *string  `bun:"to_token"`
	ToAmount      *float64 `bun:"to_amount"`
	Status        string   `bun:"status"`
	BridgeID      int64    `bun:"bridge_id"`
	BridgeFrom    string   `bun:"bridge_from"`
	BridgeTo      string   `bun:"bridge_to"`
}

// BridgeDao maps to the bridges lookup table.
type BridgeDao struct {
	bun.BaseModel `bun:"table:bridges"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

func toTransferDao(t entities.Transfer) *TransferDao {
	return &TransferDao{
		FromAddress:   t.FromAddress,
		FromChain:     t.FromChain,
		FromHash:      t.FromHash,
		FromToken:     t.FromToken,
		FromAmount:    t.FromAmount,
		FromTimestamp: t.FromTimestamp,
		ToAddress:     t.ToAddress,
		ToChain:       t.ToChain,
		ToHash:        t.ToHash,
		ToTimestamp:   t.ToTimestamp,
		ToToken:       t.ToToken,
		ToAmount:      t.ToAmount,
		Status:        t.Status,
		BridgeID:      t.BridgeID,
		BridgeFrom:    t.BridgeFrom,
		BridgeTo:      t.BridgeTo,
	}
}
