package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ProcessingMetrics struct {
	processedDateGauge    prometheus.Gauge
	processedDaysCount    prometheus.Counter
	fetchedPagesCount     prometheus.Counter
	insertedTransferCount *prometheus.CounterVec
	skippedOperationCount prometheus.Counter
}

func NewProcessingMetrics(namespace string, registerer prometheus.Registerer) *ProcessingMetrics {
	factory := promauto.With(registerer)
	m := ProcessingMetrics{
		processedDateGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_processed_date", namespace),
			Help: "The latest fully processed day as unix timestamp",
		}),
		processedDaysCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_days_count", namespace),
			Help: "The total number of fully processed days",
		}),
		fetchedPagesCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_fetched_pages_count", namespace),
			Help: "The total number of fetched operation pages",
		}),
		insertedTransferCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_inserted_transfer_count", namespace),
			Help: "The total number of inserted transfers per table",
		}, []string{"table"}),
		skippedOperationCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_skipped_operation_count", namespace),
			Help: "The total number of operations skipped for missing destination address",
		}),
	}
	return &m
}

func (m *ProcessingMetrics) SetProcessedDate(unixTimestamp int64) {
	m.processedDateGauge.Set(float64(unixTimestamp))
	m.processedDaysCount.Inc()
}

func (m *ProcessingMetrics) IncFetchedPages() {
	m.fetchedPagesCount.Inc()
}

func (m *ProcessingMetrics) IncInsertedTransfers(table string) {
	m.insertedTransferCount.WithLabelValues(table).Inc()
}

func (m *ProcessingMetrics) IncSkippedOperations() {
	m.skippedOperationCount.Inc()
}
