package server

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	// Datagram counters
	DatagramsIn   atomic.Int64 // total datagrams received
	DatagramsOut  atomic.Int64 // total datagrams sent
	BytesIn       atomic.Int64 // total payload bytes received
	BytesOut      atomic.Int64 // total payload bytes sent
	OversizeDrops atomic.Int64 // receives dropped for exceeding the datagram ceiling
	ProtocolDrops atomic.Int64 // malformed messages silently dropped
	UnauthDrops   atomic.Int64 // messages from endpoints with no session
	SendErrors    atomic.Int64 // failed sends (fan-out continued)

	// Session counters
	Logins        atomic.Int64 // login messages accepted
	Logouts       atomic.Int64 // logout messages that removed a session
	StatusChanges atomic.Int64 // accepted status changes

	// Delivery counters
	PrivateMessages atomic.Int64 // private messages routed
	ChatBroadcasts  atomic.Int64 // plain chat lines broadcast
	MediaRelays     atomic.Int64 // image/file/voice relays
	TypingRelays    atomic.Int64 // typing indicators rebroadcast

	// History counters
	HistoryWrites atomic.Int64 // history records appended
	HistoryErrors atomic.Int64 // history write failures (delivery unaffected)
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time view of all metrics as a serializable struct.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	DatagramsIn   int64 `json:"datagrams_in"`
	DatagramsOut  int64 `json:"datagrams_out"`
	BytesIn       int64 `json:"bytes_in"`
	BytesOut      int64 `json:"bytes_out"`
	OversizeDrops int64 `json:"oversize_drops"`
	ProtocolDrops int64 `json:"protocol_drops"`
	UnauthDrops   int64 `json:"unauth_drops"`
	SendErrors    int64 `json:"send_errors"`

	Logins        int64 `json:"logins"`
	Logouts       int64 `json:"logouts"`
	StatusChanges int64 `json:"status_changes"`

	PrivateMessages int64 `json:"private_messages"`
	ChatBroadcasts  int64 `json:"chat_broadcasts"`
	MediaRelays     int64 `json:"media_relays"`
	TypingRelays    int64 `json:"typing_relays"`

	HistoryWrites int64 `json:"history_writes"`
	HistoryErrors int64 `json:"history_errors"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:          uptime.Truncate(time.Second).String(),
		UptimeSeconds:   int64(uptime.Seconds()),
		DatagramsIn:     m.DatagramsIn.Load(),
		DatagramsOut:    m.DatagramsOut.Load(),
		BytesIn:         m.BytesIn.Load(),
		BytesOut:        m.BytesOut.Load(),
		OversizeDrops:   m.OversizeDrops.Load(),
		ProtocolDrops:   m.ProtocolDrops.Load(),
		UnauthDrops:     m.UnauthDrops.Load(),
		SendErrors:      m.SendErrors.Load(),
		Logins:          m.Logins.Load(),
		Logouts:         m.Logouts.Load(),
		StatusChanges:   m.StatusChanges.Load(),
		PrivateMessages: m.PrivateMessages.Load(),
		ChatBroadcasts:  m.ChatBroadcasts.Load(),
		MediaRelays:     m.MediaRelays.Load(),
		TypingRelays:    m.TypingRelays.Load(),
		HistoryWrites:   m.HistoryWrites.Load(),
		HistoryErrors:   m.HistoryErrors.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// LogSummary writes a periodic metrics summary to the logger.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Info("metrics",
		"uptime", s.Uptime,
		"datagrams_in", s.DatagramsIn,
		"datagrams_out", s.DatagramsOut,
		"send_errors", s.SendErrors,
		"logins", s.Logins,
		"chat", s.ChatBroadcasts,
		"private", s.PrivateMessages,
		"history_errors", s.HistoryErrors,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}
