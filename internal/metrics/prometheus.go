package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"grimm.is/nftjson/internal/nft"
	"grimm.is/nftjson/internal/schema"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all nftjson metrics.
type Registry struct {
	// nft invocations
	Operations       *prometheus.CounterVec
	OperationSeconds *prometheus.HistogramVec
	PayloadBytes     *prometheus.HistogramVec
	StateTransitions *prometheus.CounterVec

	// Ruleset contents, refreshed by the Collector
	CounterPackets     *prometheus.GaugeVec
	CounterBytes       *prometheus.GaugeVec
	QuotaUsedBytes     *prometheus.GaugeVec
	RuleCounterPackets *prometheus.GaugeVec
	RuleCounterBytes   *prometheus.GaugeVec
	SetElements        *prometheus.GaugeVec
	Objects            *prometheus.GaugeVec
	LastScrape         prometheus.Gauge
	ScrapeErrors       prometheus.Counter
}

// Get returns the registry bound to the default Prometheus registerer,
// creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = New(prometheus.DefaultRegisterer)
	})
	return registry
}

// New creates a registry whose collectors are registered with reg.
func New(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	r := &Registry{}

	r.Operations = f.NewCounterVec(prometheus.CounterOpts{
		Name: "nftjson_operations_total",
		Help: "nft invocations by operation and result",
	}, []string{"op", "result"})

	r.OperationSeconds = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nftjson_operation_duration_seconds",
		Help:    "Wall time of nft invocations",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"op"})

	r.PayloadBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nftjson_payload_bytes",
		Help:    "Bytes sent to nft for apply and check, received from nft for list",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	}, []string{"op"})

	r.StateTransitions = f.NewCounterVec(prometheus.CounterOpts{
		Name: "nftjson_state_transitions_total",
		Help: "Lifecycle transitions of nft invocations",
	}, []string{"op", "state"})

	objLabels := []string{"family", "table", "name"}
	r.CounterPackets = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_counter_packets",
		Help: "Packets seen by each named counter",
	}, objLabels)

	r.CounterBytes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_counter_bytes",
		Help: "Bytes seen by each named counter",
	}, objLabels)

	r.QuotaUsedBytes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_quota_used_bytes",
		Help: "Bytes consumed from each named quota",
	}, objLabels)

	ruleLabels := []string{"family", "table", "chain", "handle"}
	r.RuleCounterPackets = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_rule_counter_packets",
		Help: "Packets seen by anonymous counters in rules",
	}, ruleLabels)

	r.RuleCounterBytes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_rule_counter_bytes",
		Help: "Bytes seen by anonymous counters in rules",
	}, ruleLabels)

	r.SetElements = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_set_elements",
		Help: "Elements in each set or map",
	}, []string{"family", "table", "name", "kind"})

	r.Objects = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nftjson_ruleset_objects",
		Help: "Objects in the listed ruleset by kind",
	}, []string{"kind"})

	r.LastScrape = f.NewGauge(prometheus.GaugeOpts{
		Name: "nftjson_last_scrape_timestamp_seconds",
		Help: "Unix time of the last successful ruleset scrape",
	})

	r.ScrapeErrors = f.NewCounter(prometheus.CounterOpts{
		Name: "nftjson_scrape_errors_total",
		Help: "Failed ruleset scrapes",
	})

	return r
}

// Result classifies an operation outcome for the result label.
func Result(err error) string {
	if err == nil {
		return "success"
	}
	var (
		pf *nft.ProcessFailedError
		se *nft.SpawnError
		oe *nft.OutputEncodingError
		de *schema.DecodeError
		ee *schema.EncodeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &pf):
		return "process_failed"
	case errors.As(err, &se):
		return "spawn_failed"
	case errors.As(err, &oe):
		return "encoding_error"
	case errors.As(err, &de):
		return "decode_error"
	case errors.As(err, &ee):
		return "encode_error"
	}
	return "error"
}

// ObserveState implements nft.Observer.
func (r *Registry) ObserveState(op string, state nft.State) {
	r.StateTransitions.WithLabelValues(op, state.String()).Inc()
}

// ObserveResult implements nft.Observer.
func (r *Registry) ObserveResult(op string, err error, payloadBytes int, elapsed time.Duration) {
	r.Operations.WithLabelValues(op, Result(err)).Inc()
	r.OperationSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
	r.PayloadBytes.WithLabelValues(op).Observe(float64(payloadBytes))
}

var _ nft.Observer = (*Registry)(nil)
