package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// TransferTable is the sink table a normalized transfer is written to.
type TransferTable string

const (
	TableTxs          TransferTable = "txs"
	TableTxsTransport TransferTable = "txs_transport"
)

// Operation is one bridge operation as returned by the wormholescan operations endpoint.
type Operation struct {
	ID          string            `json:"id"`
	SourceChain *SourceChain      `json:"sourceChain"`
	Content     *OperationContent `json:"content"`
	Data        *OperationData    `json:"data"`
}

type SourceChain struct {
	ChainID     *int               `json:"chainId"`
	From        *string            `json:"from"`
	Timestamp   string             `json:"timestamp"`
	Status      *string            `json:"status"`
	Transaction *SourceTransaction `json:"transaction"`
}

type SourceTransaction struct {
	TxHash *string `json:"txHash"`
}

type OperationContent struct {
	StandardizedProperties *StandardizedProperties `json:"standarizedProperties"`
}

type StandardizedProperties struct {
	ToChain           *int    `json:"toChain"`
	ToAddress         string  `json:"toAddress"`
	ToTransactionHash *string `json:"toTransactionHash"`
}

type OperationData struct {
	Symbol      *string      `json:"symbol"`
	TokenAmount *TokenAmount `json:"tokenAmount"`
	UsdAmount   *TokenAmount `json:"usdAmount"`
}

// TokenAmount keeps the amount as text. The API sends it either as a string or as a bare number.
type TokenAmount string

func (a *TokenAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TokenAmount(s)
		return nil
	}
	*a = TokenAmount(strings.TrimSpace(string(data)))
	return nil
}

func (o Operation) sourceChain() SourceChain {
	if o.SourceChain == nil {
		return SourceChain{}
	}
	return *o.SourceChain
}

func (o Operation) destination() StandardizedProperties {
	if o.Content == nil || o.Content.StandardizedProperties == nil {
		return StandardizedProperties{}
	}
	return *o.Content.StandardizedProperties
}

func (o Operation) FromChainID() *int { return o.sourceChain().ChainID }

func (o Operation) FromAddress() *string { return o.sourceChain().From }

func (o Operation) FromTxHash() *string {
	tx := o.sourceChain().Transaction
	if tx == nil {
		return nil
	}
	return tx.TxHash
}

func (o Operation) Timestamp() string { return o.sourceChain().Timestamp }

// Status falls back to "unknown" when the source chain does not report one.
func (o Operation) Status() string {
	status := o.sourceChain().Status
	if status == nil {
		return "unknown"
	}
	return *status
}

func (o Operation) ToChainID() *int { return o.destination().ToChain }

func (o Operation) ToAddress() string { return o.destination().ToAddress }

func (o Operation) ToTxHash() *string { return o.destination().ToTransactionHash }

// HasPayload reports whether the operation carries both a token amount and a symbol.
func (o Operation) HasPayload() bool {
	return o.Data != nil && o.Data.TokenAmount != nil && o.Data.Symbol != nil
}

// Transfer is the flattened record written to the sink tables.
type Transfer struct {
	FromAddress   *string  `json:"fromAddress"`
	FromChain     string   `json:"fromChain"`
	FromHash      *string  `json:"fromHash"`
	FromToken     *string  `json:"fromToken"`
	FromAmount    *float64 `json:"fromAmount"`
	FromTimestamp *int64   `json:"fromTimestamp"`
	ToAddress     string   `json:"toAddress"`
	ToChain       string   `json:"toChain"`
	ToHash        *string  `json:"toHash"`
	ToTimestamp   *int64   `json:"toTimestamp"`
	ToToken       *string  `json:"toToken"`
	ToAmount      *float64 `json:"toAmount"`
	Status        string   `json:"status"`
	BridgeID      int64    `json:"bridgeId"`
	BridgeFrom    string   `json:"bridgeFrom"`
	BridgeTo      string   `json:"bridgeTo"`
}

// Table returns the sink table for the transfer: value bearing transfers go to txs.
func (t Transfer) Table() TransferTable {
	if t.FromAmount != nil {
		return TableTxs
	}
	return TableTxsTransport
}

// DateWindow spans one UTC calendar day, both bounds inclusive.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func NewDateWindow(day time.Time) DateWindow {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return DateWindow{
		Start: start,
		End:   start.Add(24*time.Hour - time.Millisecond),
	}
}

// Day is the calendar date of the window, used as checkpoint value.
func (w DateWindow) Day() time.Time {
	return w.Start
}

func (w DateWindow) String() string {
	return w.Start.Format(time.DateOnly)
}
