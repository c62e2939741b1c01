package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del monitor, particionados por wallet (etiqueta visible, no la dirección).

var (
	PollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "polls_total",
		Help:      "Total polling cycles started",
	}, []string{"wallet"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "fetch_failures_total",
		Help:      "Total activity fetches that failed (transport, HTTP or decode)",
	}, []string{"wallet"})

	MalformedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "malformed_records_total",
		Help:      "Total activity records dropped for a missing or invalid timestamp",
	}, []string{"wallet"})

	NewActivities = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "new_activities_total",
		Help:      "Total activities classified as new",
	}, []string{"wallet"})

	DuplicatesSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "duplicates_suppressed_total",
		Help:      "Total new activities skipped because their id was already notified",
	}, []string{"wallet"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "polywatch",
		Name:      "deliveries_total",
		Help:      "Total notification attempts by result",
	}, []string{"wallet", "result"})

	Watermark = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "polywatch",
		Name:      "watermark_seconds",
		Help:      "Current watermark (unix seconds) per wallet",
	}, []string{"wallet"})

	CycleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "polywatch",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full poll + notify cycle",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"wallet"})
)

// Valores de la etiqueta result de Deliveries.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
)

// DeliveryResult traduce el error de Notify a la etiqueta result.
func DeliveryResult(err error) string {
	if err != nil {
		return ResultFailed
	}
	return ResultDelivered
}
