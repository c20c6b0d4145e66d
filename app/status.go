package app

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"
)

var startTime = time.Now()

// StatusSessionsFunc is set by main to report live sessions without an
// import cycle.
var StatusSessionsFunc func() int

var (
	checksMu sync.RWMutex
	checks   []StatusCheck
)

// StatusCheck represents a single status check result
type StatusCheck struct {
	Name    string `json:"name"`
	Status  bool   `json:"status"`
	Details string `json:"details,omitempty"`
}

// StatusResponse represents the full status response
type StatusResponse struct {
	Healthy   bool           `json:"healthy"`
	Uptime    string         `json:"uptime"`
	GoVersion string         `json:"go_version"`
	Memory    MemoryStatus   `json:"memory"`
	Sessions  int            `json:"sessions"`
	Checks    []StatusCheck  `json:"checks"`
	APILog    []*APILogEntry `json:"api_log,omitempty"`
}

// MemoryStatus represents memory usage
type MemoryStatus struct {
	Alloc      uint64 `json:"alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

// RegisterStatus adds configuration checks shown on /status.
func RegisterStatus(c ...StatusCheck) {
	checksMu.Lock()
	checks = append(checks, c...)
	checksMu.Unlock()
}

// HealthHandler is the quick health check.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := buildStatus()
	RespondJSON(w, map[string]interface{}{
		"healthy":  status.Healthy,
		"sessions": status.Sessions,
	})
}

// StatusHandler handles the /status endpoint
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := buildStatus()

	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
		return
	}

	Respond(w, r, Response{
		Title:       "Status",
		Description: "Server status and health checks",
		HTML:        renderStatusHTML(status),
	})
}

func buildStatus() StatusResponse {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	checksMu.RLock()
	cs := make([]StatusCheck, len(checks))
	copy(cs, checks)
	checksMu.RUnlock()

	healthy := true
	for _, c := range cs {
		if !c.Status {
			healthy = false
		}
	}

	sessions := 0
	if StatusSessionsFunc != nil {
		sessions = StatusSessionsFunc()
	}

	return StatusResponse{
		Healthy:   healthy,
		Uptime:    formatUptime(time.Since(startTime)),
		GoVersion: runtime.Version(),
		Memory: MemoryStatus{
			Alloc:      m.Alloc / 1024 / 1024,
			Sys:        m.Sys / 1024 / 1024,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Sessions: sessions,
		Checks:   cs,
		APILog:   GetAPILog(),
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func statusIcon(ok bool) (icon, class string) {
	if ok {
		return "✓", "status-ok"
	}
	return "✗", "status-error"
}

func renderStatusHTML(status StatusResponse) string {
	var sb strings.Builder

	icon, class := statusIcon(status.Healthy)
	text := "Healthy"
	if !status.Healthy {
		text = "Issues Detected"
	}

	sb.WriteString(`<div class="status-page">`)
	sb.WriteString(fmt.Sprintf(`<div class="status-header">
<span class="%s status-icon">%s</span>
<span>%s</span>
</div>`, class, icon, text))

	// System Info
	sb.WriteString(Section("System", `<div class="system-info">`+
		infoItem("Uptime", status.Uptime)+
		infoItem("Memory", fmt.Sprintf("%dMB / %dMB", status.Memory.Alloc, status.Memory.Sys))+
		infoItem("Goroutines", fmt.Sprintf("%d", status.Memory.Goroutines))+
		infoItem("Sessions", fmt.Sprintf("%d", status.Sessions))+
		`</div>`))

	// Configuration
	var cfg strings.Builder
	for _, c := range status.Checks {
		icon, class := statusIcon(c.Status)
		details := ""
		if c.Details != "" {
			details = fmt.Sprintf(`<span class="status-details">%s</span>`, html.EscapeString(c.Details))
		}
		cfg.WriteString(fmt.Sprintf(`<div class="status-item">
<span class="status-name">%s</span>
<span class="status-value">%s<span class="status-icon %s">%s</span></span>
</div>`, html.EscapeString(c.Name), details, class, icon))
	}
	sb.WriteString(Section("Configuration", cfg.String()))

	// Upstream calls
	var calls strings.Builder
	if len(status.APILog) == 0 {
		calls.WriteString(Empty("", "No upstream calls yet"))
	} else {
		calls.WriteString(`<table class="status-table"><tr><th>Time</th><th>Status</th><th>Duration</th><th>URL</th><th>Error</th></tr>`)
		for _, e := range status.APILog {
			calls.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				e.Time.Format("15:04:05"), e.Status, e.Duration.Round(time.Millisecond),
				html.EscapeString(e.URL), html.EscapeString(e.Error)))
		}
		calls.WriteString(`</table>`)
	}
	sb.WriteString(Section("Upstream Calls", calls.String()))

	// System log
	var logs strings.Builder
	entries := GetSysLog()
	if len(entries) > 50 {
		entries = entries[:50]
	}
	if len(entries) == 0 {
		logs.WriteString(Empty("", "No log entries"))
	} else {
		logs.WriteString(`<table class="status-table"><tr><th>Time</th><th>Package</th><th>Message</th></tr>`)
		for _, e := range entries {
			logs.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				e.Time.Format("15:04:05"), html.EscapeString(e.Package), html.EscapeString(e.Message)))
		}
		logs.WriteString(`</table>`)
	}
	sb.WriteString(Section("System Log", logs.String()))

	sb.WriteString(`</div>`)
	return sb.String()
}

func infoItem(label, value string) string {
	return `<div class="system-info-item">
<div class="system-info-label">` + label + `</div>
<div class="system-info-value">` + html.EscapeString(value) + `</div>
</div>`
}
