package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	sent      prometheus.Counter
	failed    prometheus.Counter
	simulated prometheus.Counter
	latency   prometheus.Histogram
}

func newMetrics(registry *prometheus.Registry) (*metrics, error) {
	m := &metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memorelay",
			Name:      "sent_total",
			Help:      "number of memos sent",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memorelay",
			Name:      "failed_total",
			Help:      "number of memos that could not be sent",
		}),
		simulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memorelay",
			Name:      "simulated_total",
			Help:      "number of local send_memo simulations",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "memorelay",
			Name:      "send_seconds",
			Help:      "time to build, sign and send a memo",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.sent, m.failed, m.simulated, m.latency} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
