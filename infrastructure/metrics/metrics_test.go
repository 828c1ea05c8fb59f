package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestProcessingMetrics(t *testing.T) {
	m := NewProcessingMetrics("test", prometheus.NewRegistry())

	m.SetProcessedDate(1672876800)
	m.SetProcessedDate(1672963200)
	m.IncFetchedPages()
	m.IncInsertedTransfers("txs")
	m.IncInsertedTransfers("txs")
	m.IncInsertedTransfers("txs_transport")
	m.IncSkippedOperations()

	require.Equal(t, float64(1672963200), testutil.ToFloat64(m.processedDateGauge))
	require.Equal(t, float64(2), testutil.ToFloat64(m.processedDaysCount))
	require.Equal(t, float64(1), testutil.ToFloat64(m.fetchedPagesCount))
	require.Equal(t, float64(2), testutil.ToFloat64(m.insertedTransferCount.WithLabelValues("txs")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.insertedTransferCount.WithLabelValues("txs_transport")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.skippedOperationCount))
}

func TestProcessingMetrics_separateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewProcessingMetrics("test", prometheus.NewRegistry())
		NewProcessingMetrics("test", prometheus.NewRegistry())
	})
}
