package api

import (
	"net/http"

	"ChintuIdrive/cloudwatch-metrics/monitor"
)

// RegisterHandlers wires the local diagnostic endpoints. The daemon is
// the only state they read; nothing here can mutate a cycle.
func RegisterHandlers(daemon *monitor.MetricsDaemon) {
	cycleStatusHandler := NewCycleStatusHandler(daemon)
	http.Handle("/last_cycle", cycleStatusHandler)

	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}
