package api

import (
	"encoding/json"
	"net/http"

	"ChintuIdrive/cloudwatch-metrics/monitor"
)

type CycleStatusHandler struct {
	daemon *monitor.MetricsDaemon
}

func NewCycleStatusHandler(daemon *monitor.MetricsDaemon) *CycleStatusHandler {
	return &CycleStatusHandler{
		daemon: daemon,
	}
}

func (csh *CycleStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lastCycle := csh.daemon.LastCycle()
	if lastCycle == nil {
		http.Error(w, "no cycle completed yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lastCycle)
}
