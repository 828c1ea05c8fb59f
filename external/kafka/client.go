package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/twmb/franz-go/pkg/kgo"
)

type KafkaClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Client struct {
	kcl KafkaClient
}

func NewClient(kafkaClient KafkaClient) *Client {
	return &Client{
		kcl: kafkaClient,
	}
}

type transferMessage struct {
	Table entities.TransferTable `json:"table"`
	entities.Transfer
}

// PublishTransfer mirrors a stored transfer onto the default produce topic.
func (kc *Client) PublishTransfer(ctx context.Context, table entities.TransferTable, transfer entities.Transfer) error {
	record, err := createTransferRecord(table, transfer)
	if err != nil {
		return fmt.Errorf("creating kafka record for transfer: %w", err)
	}

	err = kc.kcl.ProduceSync(ctx, record).FirstErr()
	if err != nil {
		return fmt.Errorf("producing transfer record: %w", err)
	}

	return nil
}

func createTransferRecord(table entities.TransferTable, transfer entities.Transfer) (*kgo.Record, error) {

	payload, err := json.Marshal(transferMessage{Table: table, Transfer: transfer})
	if err != nil {
		return nil, fmt.Errorf("marshalling transfer to json: %w", err)
	}

	// keyed by source transaction so that records of the same transaction land on the same partition
	var key []byte
	if transfer.FromHash != nil {
		key = []byte(*transfer.FromHash)
	}

	return &kgo.Record{
		Key:   key,
		Value: payload,
	}, nil
}
