package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where preview and daemon servers expose metrics.
const MetricsPath = "/metrics"

// HTTPHandler serves the registry in the OpenMetrics format. A nil registry
// falls back to the process-wide default gatherer.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Mount registers the metrics handler on mux.
func Mount(mux *http.ServeMux, reg *prom.Registry) {
	mux.Handle(MetricsPath, HTTPHandler(reg))
}
