package controllers

import (
	"fmt"
	"net/http"
	"time"

	"chronorise/internal/engine"
	"chronorise/internal/services"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.AlarmServiceInterface
	ringer    engine.RingerInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Alarms        int     `json:"alarms"`
	ActiveAlarms  int     `json:"active_alarms"`
	Ringing       bool    `json:"ringing"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Alarms:        hc.service.Count(),
		ActiveAlarms:  hc.service.ActiveCount(),
		Ringing:       hc.ringer.Occupied(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.AlarmServiceInterface, ringer engine.RingerInterface) *HealthController {
	return &HealthController{
		service:   service,
		ringer:    ringer,
		startTime: time.Now(),
	}
}
