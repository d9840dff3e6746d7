package server

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/protocol"
)

// Run binds the socket, starts the receive loop, and blocks until a shutdown
// signal arrives or the socket closes. A bind failure is fatal and returned
// to the caller.
func (s *Server) Run() error {
	t, err := Listen(s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.transport = t
	s.send = t.Send

	slog.Info("chat server listening", "addr", t.LocalAddr())

	s.StartMetricsHTTP()
	s.metrics.StartPeriodicLog(60*time.Second, s.ctx.Done())

	go s.receiveLoop()

	// Wait for shutdown signal or loop exit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down...")
	case <-s.ctx.Done():
	}
	s.Shutdown()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() {
	s.cancel()
	if s.transport != nil {
		_ = s.transport.Close()
	}
	if err := s.recorder.Close(); err != nil {
		slog.Error("history close failed", "err", err)
	}
}

// receiveLoop is the single sequential control path: receive one datagram,
// dispatch it (including every fan-out send), record it, then block on the
// next receive. Nothing else mutates the registry or presence store.
func (s *Server) receiveLoop() {
	defer s.cancel()

	buf := make([]byte, protocol.MaxDatagram+1)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		n, origin, err := s.transport.Receive(buf)
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				// the socket fails only when closed
				slog.Info("receive loop ending", "err", err)
				return
			}
		}

		s.metrics.DatagramsIn.Add(1)
		s.metrics.BytesIn.Add(int64(n))

		if n > protocol.MaxDatagram {
			s.metrics.OversizeDrops.Add(1)
			continue // truncated by the kernel, unparseable
		}

		s.handleDatagram(origin, string(buf[:n]))
	}
}

// handleDatagram runs one inbound message through dispatch and delivery,
// then records it. Typing indicators never reach history; everything else
// is recorded regardless of its dispatch outcome.
func (s *Server) handleDatagram(origin *net.UDPAddr, raw string) {
	msg := protocol.Parse(raw)
	slog.Debug("received", "origin", origin, "action", msg.Action, "bytes", len(raw))

	s.deliver(s.dispatch(origin, msg))

	if msg.Action == protocol.ActionTyping {
		return
	}
	if err := s.recorder.Record(origin.String(), raw); err != nil {
		slog.Error("history write failed", "err", err)
		s.metrics.HistoryErrors.Add(1)
		return
	}
	s.metrics.HistoryWrites.Add(1)
}
