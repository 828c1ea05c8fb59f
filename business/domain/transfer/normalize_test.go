package transfer

import (
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNormalizer_normalize(t *testing.T) {

	testData := []struct {
		name      string
		operation entities.Operation
		expected  entities.Transfer
	}{
		{
			name:      "value transfer",
			operation: newOperation("op-1", 2, 5, "0xdest", "2024-01-15T10:30:00Z", ptr("USDC"), ptr(entities.TokenAmount("1500.25"))),
			expected: entities.Transfer{
				FromAddress:   ptr("0xsender"),
				FromChain:     "ethereum",
				FromHash:      ptr("0xhash-op-1"),
				FromToken:     ptr("USDC"),
				FromAmount:    ptr(1500.25),
				FromTimestamp: ptr(int64(1705314600)),
				ToAddress:     "0xdest",
				ToChain:       "polygon",
				ToHash:        ptr("0xdesthash-op-1"),
				ToToken:       ptr("USDC"),
				ToAmount:      ptr(1500.25),
				Status:        "completed",
				BridgeID:      7,
				BridgeFrom:    "ethereum",
				BridgeTo:      "polygon",
			},
		},
		{
			name:      "transport without data",
			operation: newOperation("op-2", 1, 30, "dest", "2024-01-15T10:30:00.123+02:00", nil, nil),
			expected: entities.Transfer{
				FromAddress:   ptr("0xsender"),
				FromChain:     "solana",
				FromHash:      ptr("0xhash-op-2"),
				FromTimestamp: ptr(int64(1705307400)),
				ToAddress:     "dest",
				ToChain:       "base",
				ToHash:        ptr("0xdesthash-op-2"),
				Status:        "completed",
				BridgeID:      7,
				BridgeFrom:    "solana",
				BridgeTo:      "base",
			},
		},
		{
			name:      "amount without symbol is transport",
			operation: newOperation("op-3", 2, 9999, "dest", "2024-01-15T10:30:00", nil, ptr(entities.TokenAmount("10"))),
			expected: entities.Transfer{
				FromAddress:   ptr("0xsender"),
				FromChain:     "ethereum",
				FromHash:      ptr("0xhash-op-3"),
				FromTimestamp: ptr(int64(1705314600)),
				ToAddress:     "dest",
				ToChain:       "unknown chain (9999)",
				ToHash:        ptr("0xdesthash-op-3"),
				Status:        "completed",
				BridgeID:      7,
				BridgeFrom:    "ethereum",
				BridgeTo:      "unknown chain (9999)",
			},
		},
		{
			name:      "scientific and empty amounts",
			operation: newOperation("op-4", 2, 2, "dest", "2024-01-15T10:30:00Z", ptr("WETH"), ptr(entities.TokenAmount("1.5e3"))),
			expected: entities.Transfer{
				FromAddress:   ptr("0xsender"),
				FromChain:     "ethereum",
				FromHash:      ptr("0xhash-op-4"),
				FromToken:     ptr("WETH"),
				FromAmount:    ptr(1500.0),
				FromTimestamp: ptr(int64(1705314600)),
				ToAddress:     "dest",
				ToChain:       "ethereum",
				ToHash:        ptr("0xdesthash-op-4"),
				ToToken:       ptr("WETH"),
				ToAmount:      ptr(1500.0),
				Status:        "completed",
				BridgeID:      7,
				BridgeFrom:    "ethereum",
				BridgeTo:      "ethereum",
			},
		},
	}

	for _, td := range testData {
		t.Run(td.name, func(t *testing.T) {
			got, ok, err := newNormalizer(7).normalize(td.operation)
			require.NoError(t, err)
			require.True(t, ok)

			if diff := cmp.Diff(td.expected, got); diff != "" {
				t.Fatalf("Unexpected result: %v", diff)
			}
		})
	}
}

func TestNormalizer_skipsMissingDestinationAddress(t *testing.T) {
	n := newNormalizer(1)

	op := newOperation("op-1", 2, 5, "", "2024-01-15T10:30:00Z", ptr("USDC"), ptr(entities.TokenAmount("1")))
	_, ok, err := n.normalize(op)
	require.NoError(t, err)
	require.False(t, ok)

	op.Content = nil
	_, ok, err = n.normalize(op)
	require.NoError(t, err)
	require.False(t, ok)

	// skipped operations do not feed the timestamp carry-over
	require.Nil(t, n.lastUnixTimestamp)
}

func TestNormalizer_carriesOverTimestamp(t *testing.T) {
	n := newNormalizer(1)

	first, ok, err := n.normalize(newOperation("op-1", 2, 5, "dest", "", nil, nil))
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, first.FromTimestamp)

	second, ok, err := n.normalize(newOperation("op-2", 2, 5, "dest", "2024-01-15T10:30:00Z", nil, nil))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1705314600), *second.FromTimestamp)

	third, ok, err := n.normalize(newOperation("op-3", 2, 5, "dest", "", nil, nil))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1705314600), *third.FromTimestamp)

	// values are not shared between transfers
	*third.FromTimestamp = 0
	require.Equal(t, int64(1705314600), *second.FromTimestamp)
	require.Equal(t, int64(1705314600), *n.lastUnixTimestamp)
}

func TestNormalizer_errors(t *testing.T) {

	testData := []struct {
		name      string
		operation entities.Operation
	}{
		{
			name:      "invalid timestamp",
			operation: newOperation("op-1", 2, 5, "dest", "15.01.2024 10:30", nil, nil),
		},
		{
			name:      "invalid amount",
			operation: newOperation("op-1", 2, 5, "dest", "2024-01-15T10:30:00Z", ptr("USDC"), ptr(entities.TokenAmount("lots"))),
		},
	}

	for _, td := range testData {
		t.Run(td.name, func(t *testing.T) {
			_, _, err := newNormalizer(1).normalize(td.operation)
			require.Error(t, err)
		})
	}
}

func TestCoerceAmount(t *testing.T) {

	testData := []struct {
		amount   entities.TokenAmount
		expected float64
	}{
		{amount: "0", expected: 0},
		{amount: "", expected: 0},
		{amount: " 12.5 ", expected: 12.5},
		{amount: "1000000000000000000", expected: 1e18},
		{amount: "0.000001", expected: 0.000001},
		{amount: "2E2", expected: 200},
	}

	for _, td := range testData {
		t.Run(string(td.amount), func(t *testing.T) {
			got, err := coerceAmount(td.amount)
			require.NoError(t, err)
			require.Equal(t, td.expected, got)
		})
	}
}

func newOperation(id string, fromChain, toChain int, toAddress, timestamp string, symbol *string, amount *entities.TokenAmount) entities.Operation {
	op := entities.Operation{
		ID: id,
		SourceChain: &entities.SourceChain{
			ChainID:     ptr(fromChain),
			From:        ptr("0xsender"),
			Timestamp:   timestamp,
			Status:      ptr("completed"),
			Transaction: &entities.SourceTransaction{TxHash: ptr("0xhash-" + id)},
		},
		Content: &entities.OperationContent{
			StandardizedProperties: &entities.StandardizedProperties{
				ToChain:           ptr(toChain),
				ToAddress:         toAddress,
				ToTransactionHash: ptr("0xdesthash-" + id),
			},
		},
	}
	if symbol != nil || amount != nil {
		op.Data = &entities.OperationData{Symbol: symbol, TokenAmount: amount}
	}
	return op
}

func ptr[T any](v T) *T {
	return &v
}
