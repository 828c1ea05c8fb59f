package transfer

import (
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

// naiveLayout is used for timestamps that come without a zone offset. They are taken as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// normalizer turns raw operations of one window into transfers.
//
// An operation without source timestamp gets the unix timestamp of the previous operation that had one.
// TODO: confirm with the txs consumers whether the carried over timestamp should become NULL instead.
type normalizer struct {
	bridgeID          int64
	lastUnixTimestamp *int64
}

func newNormalizer(bridgeID int64) *normalizer {
	return &normalizer{bridgeID: bridgeID}
}

// normalize returns false for operations that have no destination address. Those are dropped.
func (n *normalizer) normalize(op entities.Operation) (entities.Transfer, bool, error) {
	toAddress := op.ToAddress()
	if toAddress == "" {
		return entities.Transfer{}, false, nil
	}

	if ts := op.Timestamp(); ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return entities.Transfer{}, false, err
		}
		unix := parsed.Unix()
		n.lastUnixTimestamp = &unix
	}

	fromChain := entities.ChainName(op.FromChainID())
	toChain := entities.ChainName(op.ToChainID())

	transfer := entities.Transfer{
		FromAddress:   op.FromAddress(),
		FromChain:     fromChain,
		FromHash:      op.FromTxHash(),
		FromTimestamp: copyInt64(n.lastUnixTimestamp),
		ToAddress:     toAddress,
		ToChain:       toChain,
		ToHash:        op.ToTxHash(),
		Status:        op.Status(),
		BridgeID:      n.bridgeID,
		BridgeFrom:    fromChain,
		BridgeTo:      toChain,
	}

	if op.HasPayload() {
		amount, err := coerceAmount(*op.Data.TokenAmount)
		if err != nil {
			return entities.Transfer{}, false, err
		}
		symbol := *op.Data.Symbol
		transfer.FromToken = &symbol
		transfer.FromAmount = &amount
		toSymbol := symbol
		toAmount := amount
		transfer.ToToken = &toSymbol
		transfer.ToAmount = &toAmount
	}

	return transfer, true, nil
}

func parseTimestamp(ts string) (time.Time, error) {
	normalized := ts
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}

	parsed, err := time.Parse(time.RFC3339Nano, normalized)
	if err == nil {
		return parsed, nil
	}
	parsed, naiveErr := time.ParseInLocation(naiveLayout, normalized, time.UTC)
	if naiveErr == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("parsing source timestamp [%s]: %w", ts, err)
}

// coerceAmount converts the token amount to a float. An empty amount counts as zero.
func coerceAmount(amount entities.TokenAmount) (float64, error) {
	value := strings.TrimSpace(string(amount))
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("parsing token amount [%s]: %w", value, err)
	}

	return d.InexactFloat64(), nil
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
