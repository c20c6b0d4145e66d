package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	sysLogMaxEntries = 500
	apiLogMaxEntries = 200
)

// SysLogEntry is a single system log line.
type SysLogEntry struct {
	Time    time.Time
	Package string
	Message string
}

// APILogEntry records a single external API call.
type APILogEntry struct {
	Time     time.Time
	Service  string
	Method   string
	URL      string
	Status   int
	Duration time.Duration
	Error    string
}

// ring is a bounded in-memory log; the oldest entry is dropped when full.
type ring[T any] struct {
	mu      sync.Mutex
	max     int
	entries []T
}

func (r *ring[T]) add(v T) {
	r.mu.Lock()
	r.entries = append(r.entries, v)
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	r.mu.Unlock()
}

// newest returns a copy in reverse-chronological order.
func (r *ring[T]) newest() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]T, len(r.entries))
	for i, e := range r.entries {
		result[len(r.entries)-1-i] = e
	}
	return result
}

var (
	sysLog = &ring[*SysLogEntry]{max: sysLogMaxEntries}
	apiLog = &ring[*APILogEntry]{max: apiLogMaxEntries}

	loggerMu sync.RWMutex
	logger   = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// SetupLogger picks the log format for the environment: readable text in
// dev, JSON lines everywhere else.
func SetupLogger(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	loggerMu.Lock()
	logger = slog.New(handler)
	loggerMu.Unlock()
}

// Log writes a package tagged line to the process log and the in-memory syslog.
func Log(pkg, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	l.Info(msg, slog.String("package", pkg))

	sysLog.add(&SysLogEntry{
		Time:    time.Now(),
		Package: pkg,
		Message: msg,
	})
}

// GetSysLog returns a copy of the system log in reverse-chronological order.
func GetSysLog() []*SysLogEntry {
	return sysLog.newest()
}

// RecordAPICall appends an external API call record to the in-memory log.
func RecordAPICall(service, method, url string, status int, duration time.Duration, callErr error) {
	entry := &APILogEntry{
		Time:     time.Now(),
		Service:  service,
		Method:   method,
		URL:      url,
		Status:   status,
		Duration: duration,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	apiLog.add(entry)
}

// GetAPILog returns a copy of the API log entries in reverse-chronological order.
func GetAPILog() []*APILogEntry {
	return apiLog.newest()
}
