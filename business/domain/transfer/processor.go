package transfer

import (
	"context"
	"errors"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/bridgescan/wormhole-ingester/infrastructure/metrics"
	"go.uber.org/zap"
	"time"
)

type Fetcher interface {
	GetOperations(ctx context.Context, window entities.DateWindow, page int) ([]entities.Operation, error)
}

type Sink interface {
	InsertTransfer(ctx context.Context, table entities.TransferTable, transfer entities.Transfer) error
	GetBridgeID(ctx context.Context, name string) (int64, error)
}

type Publisher interface {
	PublishTransfer(ctx context.Context, table entities.TransferTable, transfer entities.Transfer) error
}

type statusStore interface {
	GetLastProcessedDate() (time.Time, error)
	SetLastProcessedDate(date time.Time) error
}

type RunState string

const (
	StateCompleted   RunState = "completed"
	StateInterrupted RunState = "interrupted"
	StateFailed      RunState = "failed"
)

type WindowCounts struct {
	ValueTransfers     int
	TransportTransfers int
	Skipped            int
}

type RunResult struct {
	State              RunState
	ValueTransfers     int
	TransportTransfers int
	DaysProcessed      int
	// LastProcessedDate is the last persisted checkpoint. Zero if it could not be loaded.
	LastProcessedDate time.Time
}

type Settings struct {
	BridgeName string
	// StartDate is used as last processed date when no checkpoint was stored yet.
	StartDate time.Time
	PageDelay time.Duration
	DayDelay  time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Processor struct {
	fetcher     Fetcher
	sink        Sink
	publisher   Publisher
	statusStore statusStore
	settings    Settings
	logger      *zap.SugaredLogger
	metrics     *metrics.ProcessingMetrics
}

// NewProcessor creates a processor. The publisher is optional and can be nil.
func NewProcessor(
	fetcher Fetcher,
	sink Sink,
	publisher Publisher,
	statusStore statusStore,
	settings Settings,
	logger *zap.SugaredLogger,
	metrics *metrics.ProcessingMetrics,
) *Processor {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Processor{
		fetcher:     fetcher,
		sink:        sink,
		publisher:   publisher,
		statusStore: statusStore,
		settings:    settings,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run processes every day after the last checkpoint up to yesterday. The checkpoint is advanced after each
// completed day only. The returned result is always filled, also in case of an error.
func (p *Processor) Run(ctx context.Context) (RunResult, error) {
	result := RunResult{State: StateFailed}

	lastProcessed, err := p.getLastProcessedDate()
	if err != nil {
		return result, fmt.Errorf("getting last processed date: %w", err)
	}
	result.LastProcessedDate = lastProcessed

	bridgeID, err := p.sink.GetBridgeID(ctx, p.settings.BridgeName)
	if err != nil {
		return p.stopped(ctx, result, fmt.Errorf("getting id of bridge [%s]: %w", p.settings.BridgeName, err))
	}

	windows := DaysToProcess(lastProcessed, p.settings.Now())
	p.logger.Infow("Starting run", "bridge", p.settings.BridgeName, "bridgeId", bridgeID,
		"lastProcessedDate", lastProcessed.Format(time.DateOnly), "days", len(windows))

	for i, window := range windows {
		p.logger.Infow("Processing day", "day", window.String())

		counts, err := p.ProcessWindow(ctx, window, bridgeID)
		result.ValueTransfers += counts.ValueTransfers
		result.TransportTransfers += counts.TransportTransfers
		if err != nil {
			return p.stopped(ctx, result, fmt.Errorf("processing day [%s]: %w", window, err))
		}

		err = p.statusStore.SetLastProcessedDate(window.Day())
		if err != nil {
			return p.stopped(ctx, result, fmt.Errorf("setting last processed date [%s]: %w", window, err))
		}
		result.LastProcessedDate = window.Day()
		result.DaysProcessed++
		p.metrics.SetProcessedDate(window.Day().Unix())

		p.logger.Infow("Finished day", "day", window.String(), "valueTransfers", counts.ValueTransfers,
			"transportTransfers", counts.TransportTransfers, "skipped", counts.Skipped)

		if i < len(windows)-1 {
			if err = sleep(ctx, p.settings.DayDelay); err != nil {
				return p.stopped(ctx, result, err)
			}
		}
	}

	result.State = StateCompleted
	return result, nil
}

// ProcessWindow fetches all pages of the window until the first empty one and writes every normalized
// transfer to its table. The counts of the already written transfers are returned also on error.
func (p *Processor) ProcessWindow(ctx context.Context, window entities.DateWindow, bridgeID int64) (WindowCounts, error) {
	var counts WindowCounts
	normalizer := newNormalizer(bridgeID)

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		operations, err := p.fetcher.GetOperations(ctx, window, page)
		if err != nil {
			return counts, fmt.Errorf("getting operations page [%d]: %w", page, err)
		}
		p.metrics.IncFetchedPages()

		if len(operations) == 0 {
			return counts, nil
		}

		for _, op := range operations {
			transfer, ok, err := normalizer.normalize(op)
			if err != nil {
				return counts, fmt.Errorf("normalizing operation [%s]: %w", op.ID, err)
			}
			if !ok {
				counts.Skipped++
				p.metrics.IncSkippedOperations()
				p.logger.Debugw("Skipping operation without destination address", "id", op.ID)
				continue
			}

			table, err := p.store(ctx, transfer)
			if err != nil {
				return counts, fmt.Errorf("storing operation [%s]: %w", op.ID, err)
			}
			if table == entities.TableTxs {
				counts.ValueTransfers++
			} else {
				counts.TransportTransfers++
			}
		}

		if err = sleep(ctx, p.settings.PageDelay); err != nil {
			return counts, err
		}
	}
}

func (p *Processor) store(ctx context.Context, transfer entities.Transfer) (entities.TransferTable, error) {
	table := transfer.Table()

	err := p.sink.InsertTransfer(ctx, table, transfer)
	if err != nil {
		return table, fmt.Errorf("inserting into [%s]: %w", table, err)
	}
	p.metrics.IncInsertedTransfers(string(table))

	if p.publisher != nil {
		err = p.publisher.PublishTransfer(ctx, table, transfer)
		if err != nil {
			return table, fmt.Errorf("publishing: %w", err)
		}
	}

	p.logger.Infow("Inserted transfer", "table", table, "time", humanTime(transfer.FromTimestamp),
		"fromChain", transfer.FromChain, "fromAddress", deref(transfer.FromAddress), "fromHash", deref(transfer.FromHash),
		"toChain", transfer.ToChain, "toAddress", transfer.ToAddress, "toHash", deref(transfer.ToHash),
		"value", describeValue(transfer))

	return table, nil
}

func (p *Processor) getLastProcessedDate() (time.Time, error) {
	date, err := p.statusStore.GetLastProcessedDate()
	if errors.Is(err, entities.ErrStoreEntityNotFound) {
		p.logger.Infow("No last processed date stored. Using start date.", "startDate", p.settings.StartDate.Format(time.DateOnly))
		return p.settings.StartDate, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

func (p *Processor) stopped(ctx context.Context, result RunResult, err error) (RunResult, error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		result.State = StateInterrupted
	} else {
		result.State = StateFailed
	}
	return result, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func humanTime(unixTimestamp *int64) string {
	if unixTimestamp == nil {
		return ""
	}
	return time.Unix(*unixTimestamp, 0).UTC().Format(time.DateTime)
}

func describeValue(transfer entities.Transfer) string {
	if transfer.FromAmount == nil || transfer.FromToken == nil {
		return "transport"
	}
	return fmt.Sprintf("%v %s", *transfer.FromAmount, *transfer.FromToken)
}

func deref[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
