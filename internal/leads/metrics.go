package leads

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess   = "success"
	outcomeRejected  = "rejected"
	outcomeInvalid   = "invalid"
	outcomeTransport = "transport_error"
)

// Metrics counts submissions per variant and outcome and times CRM calls.
type Metrics struct {
	submissions *prometheus.CounterVec
	crmLatency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm_leads",
			Subsystem: "submission",
			Name:      "total",
			Help:      "Lead submissions by variant and outcome",
		}, []string{"variant", "outcome"}),
		crmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm_leads",
			Subsystem: "crm",
			Name:      "request_seconds",
			Help:      "Latency of CRM backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.crmLatency)
	return m
}

func (m *Metrics) ObserveSubmission(variant Variant, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(variant), outcome).Inc()
}

func (m *Metrics) ObserveCRMLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.crmLatency.WithLabelValues(op).Observe(seconds)
}
