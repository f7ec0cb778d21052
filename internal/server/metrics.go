package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's own prometheus registry so multiple server
// instances never fight over collector registration.
type metrics struct {
	registry    *prometheus.Registry
	extractions *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	extractions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uttrekk_extractions_total",
		Help: "Extraction requests by extractor name and outcome.",
	}, []string{"extractor", "status"})
	reg.MustRegister(extractions)
	return &metrics{registry: reg, extractions: extractions}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observe(extractor, status string) {
	m.extractions.WithLabelValues(extractor, status).Inc()
}
