package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"near-transaction-manager/models"
	"near-transaction-manager/pkg/client"
)

const namespace = "near_tx"

// Result labels for submitted transactions
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
	ResultPending = "pending"
)

// InstrumentedProvider records every submission it forwards. Outcomes and
// errors from the wrapped provider are returned untouched.
type InstrumentedProvider struct {
	next      client.Provider
	collector *Collector

	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	lastNonce   prometheus.Gauge
}

var _ client.Provider = (*InstrumentedProvider)(nil)

// NewInstrumentedProvider registers its collectors on reg. collector may be nil.
func NewInstrumentedProvider(next client.Provider, reg prometheus.Registerer, collector *Collector) *InstrumentedProvider {
	p := &InstrumentedProvider{
		next:      next,
		collector: collector,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Transactions submitted, by result.",
		}, []string{"result"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from submission to final outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		lastNonce: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_submitted_nonce",
			Help:      "Nonce of the most recently submitted transaction.",
		}),
	}
	reg.MustRegister(p.submissions, p.latency, p.lastNonce)
	return p
}

func (p *InstrumentedProvider) SendTransaction(ctx context.Context, signedTransaction *models.SignedTransaction) (*models.FinalExecutionOutcome, error) {
	tx := signedTransaction.Transaction
	record := models.TransactionRecord{
		SignerID:   tx.SignerID,
		ReceiverID: tx.ReceiverID,
		Nonce:      tx.Nonce,
		StartTime:  time.Now(),
	}
	if hash, err := signedTransaction.Hash(); err == nil {
		record.TxHash = hash.String()
	}

	p.lastNonce.Set(float64(tx.Nonce))
	outcome, err := p.next.SendTransaction(ctx, signedTransaction)

	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime).Milliseconds()
	p.latency.Observe(record.EndTime.Sub(record.StartTime).Seconds())

	switch {
	case err != nil:
		record.Error = err.Error()
		p.submissions.WithLabelValues(ResultError).Inc()
	case outcome == nil:
		record.Error = "no outcome"
		p.submissions.WithLabelValues(ResultError).Inc()
	case outcome.Status.IsFailure():
		record.Status = outcome.Status.String()
		record.Error = string(outcome.Status.Failure)
		p.submissions.WithLabelValues(ResultFailure).Inc()
	case outcome.Status.IsSuccess():
		record.Status = outcome.Status.String()
		record.Success = true
		p.submissions.WithLabelValues(ResultSuccess).Inc()
	default:
		// NotStarted, Started or a status this client does not know
		record.Status = outcome.Status.String()
		p.submissions.WithLabelValues(ResultPending).Inc()
	}

	if p.collector != nil {
		p.collector.AddRecord(record)
	}
	return outcome, err
}

// WriteTextfile exports the gathered metrics for node_exporter's textfile collector
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
