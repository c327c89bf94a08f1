package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	submissionCounter *prometheus.CounterVec
	outcomeCounter    *prometheus.CounterVec
	feeGauge          prometheus.Gauge
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		submissionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_submissions_total",
			Help: "Payment submission attempts by result classification",
		}, []string{"result"})

		outcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_outcome_writes_total",
			Help: "Outcome persistence attempts by result",
		}, []string{"result"})

		feeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_open_fee_xrp",
			Help: "Open-ledger fee quoted at the start of the batch, in XRP",
		})

		prometheus.MustRegister(submissionCounter, outcomeCounter, feeGauge)
	})
}

func IncrementSubmission(result string) {
	if submissionCounter == nil {
		return
	}
	submissionCounter.WithLabelValues(result).Inc()
}

func IncrementOutcomeWrite(result string) {
	if outcomeCounter == nil {
		return
	}
	outcomeCounter.WithLabelValues(result).Inc()
}

func SetQuotedFee(fee float64) {
	if feeGauge == nil {
		return
	}
	feeGauge.Set(fee)
}
