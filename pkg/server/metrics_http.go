package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StartMetricsHTTP starts a lightweight HTTP server that exposes /metrics
// in Prometheus text exposition format. It runs in the background and
// shuts down when the server context is cancelled.
//
// Disabled when Config.MetricsAddr is empty.
func (s *Server) StartMetricsHTTP() {
	addr := s.cfg.MetricsAddr
	if addr == "" {
		return // metrics endpoint disabled
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics HTTP listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics HTTP error", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Helper for gauge/counter lines.
	// Write errors to http.ResponseWriter are non-actionable; suppress errcheck.
	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}
	writeFloat := func(name, help, mtype string, value float64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %f\n", name, value)
	}

	writeFloat("udpchat_uptime_seconds", "Server uptime in seconds.", "gauge", uptime)

	write("udpchat_sessions_active", "Currently connected sessions.", "gauge",
		int64(s.registry.Count()))
	write("udpchat_presence_entries", "Tracked presence entries, connected or not.", "gauge",
		int64(s.presence.Count()))

	write("udpchat_datagrams_in_total", "Total datagrams received.", "counter",
		m.DatagramsIn.Load())
	write("udpchat_datagrams_out_total", "Total datagrams sent.", "counter",
		m.DatagramsOut.Load())
	write("udpchat_bytes_in_total", "Total payload bytes received.", "counter",
		m.BytesIn.Load())
	write("udpchat_bytes_out_total", "Total payload bytes sent.", "counter",
		m.BytesOut.Load())

	write("udpchat_oversize_drops_total", "Receives dropped for exceeding the datagram ceiling.", "counter",
		m.OversizeDrops.Load())
	write("udpchat_protocol_drops_total", "Malformed messages silently dropped.", "counter",
		m.ProtocolDrops.Load())
	write("udpchat_unauth_drops_total", "Messages dropped from endpoints with no session.", "counter",
		m.UnauthDrops.Load())
	write("udpchat_send_errors_total", "Failed sends, fan-out continued.", "counter",
		m.SendErrors.Load())

	write("udpchat_logins_total", "Login messages accepted.", "counter",
		m.Logins.Load())
	write("udpchat_logouts_total", "Logout messages that removed a session.", "counter",
		m.Logouts.Load())
	write("udpchat_status_changes_total", "Accepted status changes.", "counter",
		m.StatusChanges.Load())

	write("udpchat_private_messages_total", "Private messages routed.", "counter",
		m.PrivateMessages.Load())
	write("udpchat_chat_broadcasts_total", "Plain chat lines broadcast.", "counter",
		m.ChatBroadcasts.Load())
	write("udpchat_media_relays_total", "Image, file, and voice relays.", "counter",
		m.MediaRelays.Load())
	write("udpchat_typing_relays_total", "Typing indicators rebroadcast.", "counter",
		m.TypingRelays.Load())

	write("udpchat_history_writes_total", "History records appended.", "counter",
		m.HistoryWrites.Load())
	write("udpchat_history_errors_total", "History write failures.", "counter",
		m.HistoryErrors.Load())
}
